package loomreport

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the workflows need. It is built once by Load and
// passed explicitly to each component.
type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_model"`       // default "gemini-1.5-flash"
	GeminiImageModel string        `yaml:"gemini_image_model"` // default "imagen-3.0"
	GeminiBaseURL    string        `yaml:"gemini_base_url"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"` // default 60s

	SendGridAPIKey       string `yaml:"sendgrid_api_key"`
	NewsletterFrom       string `yaml:"newsletter_from"`
	NewsletterRecipients string `yaml:"newsletter_recipients"` // comma/semicolon/space separated
	UnsubscribeURL       string `yaml:"unsubscribe_url"`

	SiteName string `yaml:"site_name"` // default "TheLoomReport"
	SiteURL  string `yaml:"site_url"`  // default "https://theloomreport.page"

	PostsDir     string `yaml:"posts_dir"`     // default "src/posts"
	AssetsDir    string `yaml:"assets_dir"`    // default "src/assets"
	GeneratedDir string `yaml:"generated_dir"` // default "src/assets/generated"
	PromptsDir   string `yaml:"prompts_dir"`   // default "prompts"
	DistDir      string `yaml:"dist_dir"`      // default "dist"

	RedisURL           string        `yaml:"redis_url"` // empty: in-process cache
	ModerationCacheTTL time.Duration `yaml:"moderation_cache_ttl"`

	LedgerPath string `yaml:"ledger_path"` // "off" disables the run ledger
}

// envBinding maps an environment variable onto a string field.
type envBinding struct {
	key string
	dst *string
}

// Load builds a Config from an optional YAML file, a .env file and the
// process environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewError(KindFilesystem, "read config file", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, NewError(KindMisuse, "parse config", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	bindings := []envBinding{
		{"APP_ENV", &c.AppEnv},
		{"LOG_LEVEL", &c.LogLevel},
		{"GEMINI_API_KEY", &c.GeminiAPIKey},
		{"GEMINI_MODEL", &c.GeminiModel},
		{"GEMINI_IMAGE_MODEL", &c.GeminiImageModel},
		{"GEMINI_BASE_URL", &c.GeminiBaseURL},
		{"SENDGRID_API_KEY", &c.SendGridAPIKey},
		{"NEWSLETTER_FROM", &c.NewsletterFrom},
		{"NEWSLETTER_RECIPIENTS", &c.NewsletterRecipients},
		{"NEWSLETTER_UNSUBSCRIBE_URL", &c.UnsubscribeURL},
		{"SITE_NAME", &c.SiteName},
		{"SITE_URL", &c.SiteURL},
		{"POSTS_DIR", &c.PostsDir},
		{"ASSETS_DIR", &c.AssetsDir},
		{"GENERATED_DIR", &c.GeneratedDir},
		{"PROMPTS_DIR", &c.PromptsDir},
		{"DIST_DIR", &c.DistDir},
		{"REDIS_URL", &c.RedisURL},
		{"LEDGER_PATH", &c.LedgerPath},
	}
	for _, b := range bindings {
		if v := EnvOr(b.key, ""); v != "" {
			*b.dst = v
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &c.HTTPTimeout},
		{"MODERATION_CACHE_TTL", &c.ModerationCacheTTL},
	}
	for _, d := range durations {
		v := EnvOr(d.key, "")
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return NewError(KindMisuse, "parse "+d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.AppEnv == "" {
		c.AppEnv = "production"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-1.5-flash"
	}
	if c.GeminiImageModel == "" {
		c.GeminiImageModel = "imagen-3.0"
	}
	if c.GeminiBaseURL == "" {
		c.GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 60 * time.Second
	}
	if c.NewsletterFrom == "" {
		c.NewsletterFrom = "TheLoomReport <digest@theloomreport.com>"
	}
	if c.UnsubscribeURL == "" {
		c.UnsubscribeURL = "https://theloomreport.page/unsubscribe"
	}
	if c.SiteName == "" {
		c.SiteName = "TheLoomReport"
	}
	if c.SiteURL == "" {
		c.SiteURL = "https://theloomreport.page"
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	if c.PostsDir == "" {
		c.PostsDir = "src/posts"
	}
	if c.AssetsDir == "" {
		c.AssetsDir = "src/assets"
	}
	if c.GeneratedDir == "" {
		c.GeneratedDir = "src/assets/generated"
	}
	if c.PromptsDir == "" {
		c.PromptsDir = "prompts"
	}
	if c.DistDir == "" {
		c.DistDir = "dist"
	}
	if c.ModerationCacheTTL == 0 {
		c.ModerationCacheTTL = 24 * time.Hour
	}
	if c.LedgerPath == "" {
		c.LedgerPath = "data/runs.db"
	}
}

// RequireGemini fails when no Gemini API key is configured.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return NewError(KindMissingConfiguration, "config", fmt.Errorf("missing required environment variable: GEMINI_API_KEY"))
	}
	return nil
}

// RequireSendGrid fails when no SendGrid API key is configured.
func (c *Config) RequireSendGrid() error {
	if c.SendGridAPIKey == "" {
		return NewError(KindMissingConfiguration, "config", fmt.Errorf("SENDGRID_API_KEY is required to send the newsletter"))
	}
	return nil
}

// Recipients parses NewsletterRecipients, failing when the setting is absent
// or yields no addresses.
func (c *Config) Recipients() ([]string, error) {
	if strings.TrimSpace(c.NewsletterRecipients) == "" {
		return nil, NewError(KindMissingConfiguration, "config", fmt.Errorf("NEWSLETTER_RECIPIENTS must list one or more comma-separated emails"))
	}
	recipients := ParseRecipients(c.NewsletterRecipients)
	if len(recipients) == 0 {
		return nil, NewError(KindMissingConfiguration, "config", fmt.Errorf("no valid recipient emails parsed from NEWSLETTER_RECIPIENTS"))
	}
	return recipients, nil
}

// LedgerEnabled reports whether runs should be recorded.
func (c *Config) LedgerEnabled() bool {
	return !strings.EqualFold(c.LedgerPath, "off")
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
