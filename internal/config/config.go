package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the lobe field service.
type Config struct {
	// Server configuration
	Port     string `env:"PORT,default=8443"`
	CertFile string `env:"CERT_FILE,default=server.crt"`
	KeyFile  string `env:"KEY_FILE,default=server.key"`

	// Auth and storage
	TokenKey    string `env:"TOKEN_KEY,required"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Physics: proton-to-electron energy ratio applied to the default
	// constant set (0 = electrons only).
	XFactor float64 `env:"X_FACTOR,default=0"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
