package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("config:config_test - LoadConfig failed: %v", err)
	}

	if cfg.COMMSURL != "nats://127.0.0.1:4222" {
		t.Errorf("config:config_test - COMMSURL = %q", cfg.COMMSURL)
	}
	if cfg.COMMSName != "service-rpc" {
		t.Errorf("config:config_test - COMMSName = %q", cfg.COMMSName)
	}
	if cfg.RequestTimeout != 25*time.Second {
		t.Errorf("config:config_test - RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.TracingEnabled {
		t.Error("config:config_test - TracingEnabled should default to false")
	}
	if cfg.JournalEnabled {
		t.Error("config:config_test - JournalEnabled should default to false")
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("COMMS_URL", "nats://broker:4222")
	t.Setenv("RPC_SERVICES", "echo,orders@2.0.0")
	t.Setenv("RPC_REQUEST_TIMEOUT", "3s")
	t.Setenv("RPC_TRACING_ENABLED", "true")
	t.Setenv("WORKER_CONTEXT", "authorization:testAuthorization,locale:en-us")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("config:config_test - LoadConfig failed: %v", err)
	}

	if cfg.COMMSURL != "nats://broker:4222" {
		t.Errorf("config:config_test - COMMSURL = %q", cfg.COMMSURL)
	}
	if len(cfg.Services) != 2 || cfg.Services[1] != "orders@2.0.0" {
		t.Errorf("config:config_test - Services = %v", cfg.Services)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("config:config_test - RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !cfg.TracingEnabled {
		t.Error("config:config_test - TracingEnabled should be true")
	}
	if cfg.WorkerContext["authorization"] != "testAuthorization" {
		t.Errorf("config:config_test - WorkerContext = %v", cfg.WorkerContext)
	}
}

func TestConfig_ValidateForCall(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing COMMS URL",
			mutate:  func(c *Config) { c.COMMSURL = "" },
			wantErr: true,
		},
		{
			name:    "no declared services",
			mutate:  func(c *Config) { c.Services = nil },
			wantErr: true,
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "journal enabled without database",
			mutate:  func(c *Config) { c.JournalEnabled = true; c.DatabaseURL = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				COMMSURL:       "nats://127.0.0.1:4222",
				Services:       []string{"echo"},
				RequestTimeout: 25 * time.Second,
			}
			tt.mutate(cfg)

			err := cfg.ValidateForCall()
			if tt.wantErr && err == nil {
				t.Error("config:config_test - expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("config:config_test - unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ValidateForDB(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateForDB(); err == nil {
		t.Error("config:config_test - expected error without DATABASE_URL")
	}
	cfg.DatabaseURL = "postgres://localhost/rpc"
	if err := cfg.ValidateForDB(); err != nil {
		t.Errorf("config:config_test - unexpected error: %v", err)
	}
}
