// Package config loads service configuration from the environment.
package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// Config holds application configuration from environment variables.
// The two tokens are required; everything else has a working default.
type Config struct {
	GitHubToken     string `env:"GITHUB_TOKEN,required"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY,required"`

	HTTPAddr     string `env:"HTTP_ADDR,default=:8000"`
	QueueSize    int    `env:"QUEUE_SIZE,default=1000"`
	HistoryLimit int    `env:"HISTORY_LIMIT,default=100"`

	// DocPath selects the documentation file compared against each diff.
	// Empty means the repository README.
	DocPath string `env:"DOC_PATH"`

	Model     string `env:"ANTHROPIC_MODEL,default=claude-sonnet-4-20250514"`
	MaxTokens int64  `env:"ANTHROPIC_MAX_TOKENS,default=1024"`

	// DatabaseURL enables the Postgres-backed history store when set.
	// Unset keeps history in process memory.
	DatabaseURL string `env:"DATABASE_URL"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
