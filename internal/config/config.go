// Package config provides client configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds service-rpc client configuration.
type Config struct {
	// COMMS: connect to standalone NATS at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"service-rpc"`

	// Services declares the remote services this client may address,
	// as "name" or "name@version" entries.
	Services []string `envconfig:"RPC_SERVICES"`

	// Timeouts
	RequestTimeout time.Duration `envconfig:"RPC_REQUEST_TIMEOUT" default:"25s"`

	// Tracing
	TracingEnabled bool `envconfig:"RPC_TRACING_ENABLED" default:"false"`

	// WorkerContext is the caller metadata attached to every call,
	// as "key:value,key:value" pairs.
	WorkerContext map[string]string `envconfig:"WORKER_CONTEXT"`

	// Journal (optional call audit log)
	JournalEnabled bool   `envconfig:"JOURNAL_ENABLED" default:"false"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateForCall checks required config when issuing RPC calls.
func (c *Config) ValidateForCall() error {
	if c.COMMSURL == "" {
		return fmt.Errorf("%s - COMMS_URL is required", logPrefix)
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("%s - RPC_SERVICES must declare at least one service", logPrefix)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - RPC_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	if c.JournalEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("%s - DATABASE_URL is required when JOURNAL_ENABLED is set", logPrefix)
	}
	return nil
}

// ValidateForDB checks required config when running DB-dependent commands (migrate).
func (c *Config) ValidateForDB() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s - DATABASE_URL is required", logPrefix)
	}
	return nil
}
