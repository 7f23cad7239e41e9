// Package gemini is a small client for the Gemini generateContent endpoint,
// covering the two calls the workflows need: chat completion and image
// generation.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/loomreport"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second

	temperature     = 0.7
	maxOutputTokens = 2048
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Format is the requested response shape.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// ChatRequest is the input to Client.Chat. Model overrides the client default
// when set.
type ChatRequest struct {
	Messages []Message
	Format   Format
	Model    string
}

// Image is a generated image payload.
type Image struct {
	Base64   string
	MimeType string
}

// Bytes decodes the base64 payload.
func (i *Image) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(i.Base64)
	if err != nil {
		return nil, loomreport.NewError(loomreport.KindMalformedModelOutput, "decode image payload", err)
	}
	return data, nil
}

// Options configures a Client.
type Options struct {
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the Gemini REST API.
type Client struct {
	apiKey     string
	model      string
	imageModel string
	baseURL    string
	http       *http.Client
	logger     zerolog.Logger
}

// NewClient builds a Client. An API key is required.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, loomreport.Errorf(loomreport.KindMissingConfiguration, "gemini", "missing required environment variable: GEMINI_API_KEY")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      opts.Model,
		imageModel: opts.ImageModel,
		baseURL:    baseURL,
		http:       httpClient,
		logger:     logger.With().Str("component", "gemini").Logger(),
	}, nil
}

// NewFromConfig builds a Client from the application config.
func NewFromConfig(cfg *loomreport.Config, logger zerolog.Logger) (*Client, error) {
	if err := cfg.RequireGemini(); err != nil {
		return nil, err
	}
	return NewClient(Options{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		ImageModel: cfg.GeminiImageModel,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     &logger,
	})
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type generationConfig struct {
	Temperature        float64  `json:"temperature,omitempty"`
	MaxOutputTokens    int      `json:"maxOutputTokens,omitempty"`
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

// mapMessages splits system messages into a single system instruction and maps
// the remaining roles onto Gemini's user/model roles.
func mapMessages(messages []Message) (*content, []content) {
	var system []string
	var contents []content
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, content{Role: "model", Parts: []part{{Text: m.Content}}})
		default:
			contents = append(contents, content{Role: "user", Parts: []part{{Text: m.Content}}})
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return &content{Parts: []part{{Text: strings.Join(system, "\n\n")}}}, contents
}

// Chat sends a conversation and returns the trimmed response text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	system, contents := mapMessages(req.Messages)
	if len(contents) == 0 {
		return "", loomreport.Errorf(loomreport.KindMisuse, "gemini chat", "at least one non-system message is required")
	}

	gen := &generationConfig{Temperature: temperature, MaxOutputTokens: maxOutputTokens}
	if req.Format == FormatJSON {
		gen.ResponseMimeType = "application/json"
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.generate(ctx, model, generateRequest{
		Contents:          contents,
		SystemInstruction: system,
		GenerationConfig:  gen,
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", loomreport.Errorf(loomreport.KindEmptyModelResponse, "gemini chat", "response returned no text content")
	}
	return text, nil
}

// GenerateImage asks the image model for a single illustration.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, loomreport.Errorf(loomreport.KindMisuse, "gemini image", "image generation requires a prompt")
	}

	resp, err := c.generate(ctx, c.imageModel, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	})
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return &Image{Base64: p.InlineData.Data, MimeType: p.InlineData.MimeType}, nil
			}
		}
	}
	return nil, loomreport.Errorf(loomreport.KindNoImagePayload, "gemini image", "response did not include image data")
}

func (c *Client) endpoint(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
}

func (c *Client) generate(ctx context.Context, model string, payload generateRequest) (*generateResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(model), &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, loomreport.NewError(loomreport.KindUpstream, "gemini request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, loomreport.NewError(loomreport.KindUpstream, "read gemini response", err)
	}

	c.logger.Debug().
		Str("model", model).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("gemini call")

	if resp.StatusCode >= 300 {
		return nil, loomreport.Errorf(loomreport.KindUpstream, "gemini request", "api error (status %d): %s", resp.StatusCode, truncate(string(body), 512))
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, loomreport.NewError(loomreport.KindMalformedModelOutput, "decode gemini response", err)
	}
	return &out, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
