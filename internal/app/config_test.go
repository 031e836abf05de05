package app

import (
	"strings"
	"testing"

	"gsearch/internal/authflow"
)

func validNativeConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	return cfg
}

func TestConfig_DefaultsAreValid(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	if cfg.Auth.Method != AuthenticationMethodNative {
		t.Errorf("default method = %q, want native", cfg.Auth.Method)
	}
	if cfg.Auth.File != DefaultConfigAuthFile {
		t.Errorf("default token file = %q, want %q", cfg.Auth.File, DefaultConfigAuthFile)
	}
	if cfg.Auth.ClientID != authflow.DefaultClientID {
		t.Errorf("default client id = %q, want %q", cfg.Auth.ClientID, authflow.DefaultClientID)
	}
	if cfg.Search.ResourceServer != "search.api.globus.org" {
		t.Errorf("default resource server = %q", cfg.Search.ResourceServer)
	}
	if cfg.Search.Query != "*" {
		t.Errorf("default query = %q, want *", cfg.Search.Query)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid native file",
			mutate: func(c *Config) {},
		},
		{
			name: "valid confidential with secret",
			mutate: func(c *Config) {
				c.Auth.Method = AuthenticationMethodConfidential
				c.Auth.ClientSecret = "shhh"
			},
		},
		{
			name: "native with env storage",
			mutate: func(c *Config) {
				c.Auth.Storage = TokenStorageTypeEnv
				c.Auth.EnvKey = "GSEARCH_TOKENS"
			},
			wantErr: "writable storage",
		},
		{
			name: "confidential without secret",
			mutate: func(c *Config) {
				c.Auth.Method = AuthenticationMethodConfidential
			},
			wantErr: "client_secret",
		},
		{
			name: "unknown method",
			mutate: func(c *Config) {
				c.Auth.Method = "implicit"
			},
			wantErr: "Method",
		},
		{
			name: "client id not a uuid",
			mutate: func(c *Config) {
				c.Auth.ClientID = "not-a-uuid"
			},
			wantErr: "client_id",
		},
		{
			name: "index not a uuid",
			mutate: func(c *Config) {
				c.Search.Index = "my-index"
			},
			wantErr: "search.index",
		},
		{
			name: "env storage without key",
			mutate: func(c *Config) {
				c.Auth.Method = AuthenticationMethodConfidential
				c.Auth.ClientSecret = "shhh"
				c.Auth.Storage = TokenStorageTypeEnv
			},
			wantErr: "env_key",
		},
		{
			name: "bad log format",
			mutate: func(c *Config) {
				c.LogFormat = "yaml"
			},
			wantErr: "LogFormat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validNativeConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestAuthConfig_NewTokenStore(t *testing.T) {
	dir := t.TempDir()

	cfg := AuthConfig{Storage: TokenStorageTypeFile, File: dir + "/tokens.json"}
	if _, err := cfg.NewTokenStore(); err != nil {
		t.Errorf("file store: %v", err)
	}

	t.Setenv("GSEARCH_TOKENS", "{}")
	cfg = AuthConfig{Storage: TokenStorageTypeEnv, EnvKey: "GSEARCH_TOKENS"}
	if _, err := cfg.NewTokenStore(); err != nil {
		t.Errorf("env store: %v", err)
	}

	cfg = AuthConfig{Storage: "vault"}
	if _, err := cfg.NewTokenStore(); err == nil {
		t.Error("expected error for unsupported storage type")
	}
}
