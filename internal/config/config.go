package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ----------------------------
	// Database
	// ----------------------------
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Optional. When set, the rate limiter is backed by Redis so the
	// window is shared across process instances.
	RedisURL string `envconfig:"REDIS_URL" default:""`

	// ----------------------------
	// HTTP
	// ----------------------------
	APIPort     string `envconfig:"API_PORT" default:"8080"`
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`

	// ----------------------------
	// Email provider
	// ----------------------------
	EmailProvider   string        `envconfig:"EMAIL_PROVIDER" default:"resend"`
	ResendAPIKey    string        `envconfig:"RESEND_API_KEY" default:""`
	ResendBaseURL   string        `envconfig:"RESEND_BASE_URL" default:"https://api.resend.com"`
	SMTPHost        string        `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort        int           `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUser        string        `envconfig:"SMTP_USER" default:""`
	SMTPPassword    string        `envconfig:"SMTP_PASSWORD" default:""`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"15s"`
	ProviderRPS     int           `envconfig:"PROVIDER_RPS" default:"10"`
	RetryAttempts   int           `envconfig:"RETRY_ATTEMPTS" default:"3"`

	// ----------------------------
	// Sender identity fallback
	// ----------------------------
	DefaultFromName  string `envconfig:"DEFAULT_FROM_NAME" default:"DocDrop"`
	DefaultFromEmail string `envconfig:"DEFAULT_FROM_EMAIL" default:"no-reply@docdrop.example"`

	// ----------------------------
	// Webhooks
	// ----------------------------
	// Optional. When empty, webhook signature verification is skipped.
	WebhookSecret string `envconfig:"WEBHOOK_SECRET" default:""`

	// ----------------------------
	// Rate limiting
	// ----------------------------
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"3"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1h"`

	// ----------------------------
	// Blob storage
	// ----------------------------
	BlobDir       string `envconfig:"BLOB_DIR" default:"data/blobs"`
	MaxFileSizeMB int64  `envconfig:"MAX_FILE_SIZE_MB" default:"25"`

	// ----------------------------
	// Delivery confirmation polling
	// ----------------------------
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"3s"`
	PollCeiling  time.Duration `envconfig:"POLL_CEILING" default:"2m"`

	// ----------------------------
	// Workers
	// ----------------------------
	ViewWorkerCount int `envconfig:"VIEW_WORKER_COUNT" default:"2"`
}

func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return &cfg, err
}

// DefaultFrom is the configured fallback origin identity, formatted the
// same way as a resolved sender.
func (c *Config) DefaultFrom() string {
	return fmt.Sprintf("%s <%s>", c.DefaultFromName, c.DefaultFromEmail)
}

// MaxFileSizeBytes is the upload limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}
