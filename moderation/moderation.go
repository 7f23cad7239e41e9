// Package moderation is the content-safety gate. Every piece of generated
// text passes through it before it is published or sent.
package moderation

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/loomreport"
	"github.com/eringen/loomreport/cache"
	"github.com/eringen/loomreport/gemini"
)

// Categories is the fixed set of disallowed categories.
var Categories = []string{
	"harassment/threatening",
	"hate/threatening",
	"self-harm/intent",
	"sexual/minors",
}

var systemPrompt = fmt.Sprintf(`You are a content safety classifier for TheLoomReport. Review text and determine if it violates policy in any of these categories: %s.
Always respond with strict JSON using the shape {"flagged": boolean, "categories": string[], "rationale": string}.
Only include categories that truly apply.`, strings.Join(Categories, ", "))

// Chatter is the LLM capability the gate needs.
type Chatter interface {
	Chat(ctx context.Context, req gemini.ChatRequest) (string, error)
}

// Result is the outcome of one moderation call.
type Result struct {
	Flagged bool
	// Categories is the classifier's categories filtered to the fixed set.
	Categories []string
	Raw        json.RawMessage
}

type verdict struct {
	Flagged    *bool    `json:"flagged"`
	Categories []string `json:"categories"`
	Rationale  string   `json:"rationale"`
}

// Gate classifies text and blocks disallowed content.
type Gate struct {
	chat   Chatter
	cache  cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithCache caches parsed verdicts for ttl, keyed by a hash of the text.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(g *Gate) {
		g.cache = c
		g.ttl = ttl
	}
}

// WithLogger sets the gate's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gate) {
		g.logger = l
	}
}

// NewGate returns a Gate that classifies text with chat.
func NewGate(chat Chatter, opts ...Option) *Gate {
	g := &Gate{chat: chat, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Moderate classifies text. A response that cannot be parsed is an error,
// never a pass.
func (g *Gate) Moderate(ctx context.Context, text string) (*Result, error) {
	key := cacheKey(text)
	if raw, ok := g.lookup(ctx, key); ok {
		if res, err := parse(raw); err == nil {
			return res, nil
		}
	}

	raw, err := g.chat.Chat(ctx, gemini.ChatRequest{
		Messages: []gemini.Message{
			{Role: gemini.RoleSystem, Content: systemPrompt},
			{Role: gemini.RoleUser, Content: userPrompt(text)},
		},
		Format: gemini.FormatJSON,
	})
	if err != nil {
		return nil, err
	}

	res, err := parse(raw)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, res.Raw)
	return res, nil
}

// AssertSafe moderates text and fails with a ContentBlocked error when it is
// flagged. label names the content in the error message.
func (g *Gate) AssertSafe(ctx context.Context, text, label string) (*Result, error) {
	res, err := g.Moderate(ctx, text)
	if err != nil {
		return nil, err
	}
	if res.Flagged {
		reason := strings.Join(res.Categories, ", ")
		if reason == "" {
			reason = "unknown issue"
		}
		return res, loomreport.NewError(loomreport.KindContentBlocked, "", fmt.Errorf("moderation failed for %s: %s", label, reason))
	}
	return res, nil
}

func userPrompt(text string) string {
	return "Analyze the following text for safety concerns. Do not classify formatting artifacts.\n\n\"\"\"" + text + "\"\"\""
}

func parse(raw string) (*Result, error) {
	body := loomreport.StripJSONFence(raw)
	trimmed := bytes.TrimSpace([]byte(body))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, loomreport.Errorf(loomreport.KindMalformedModelOutput, "moderation", "classifier returned invalid JSON: expected an object")
	}

	var v verdict
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, loomreport.NewError(loomreport.KindMalformedModelOutput, "moderation", fmt.Errorf("classifier returned invalid JSON: %w", err))
	}
	if v.Flagged == nil {
		return nil, loomreport.Errorf(loomreport.KindMalformedModelOutput, "moderation", "classifier response is missing the flagged field")
	}

	categories := make([]string, 0, len(Categories))
	for _, c := range Categories {
		if slices.Contains(v.Categories, c) {
			categories = append(categories, c)
		}
	}
	return &Result{Flagged: *v.Flagged, Categories: categories, Raw: json.RawMessage(trimmed)}, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "moderation:" + hex.EncodeToString(sum[:])
}

func (g *Gate) lookup(ctx context.Context, key string) (string, bool) {
	if g.cache == nil {
		return "", false
	}
	raw, err := g.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			g.logger.Warn().Err(err).Msg("moderation cache read failed")
		}
		return "", false
	}
	g.logger.Debug().Str("key", key).Msg("moderation cache hit")
	return string(raw), true
}

func (g *Gate) store(ctx context.Context, key string, raw json.RawMessage) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Set(ctx, key, raw, g.ttl); err != nil {
		g.logger.Warn().Err(err).Msg("moderation cache write failed")
	}
}
