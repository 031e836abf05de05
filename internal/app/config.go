package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/term"

	"gsearch/internal/authflow"
	"gsearch/internal/searchclient"
	"gsearch/internal/tokenstore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
	LogFormatOtel LogFormat = "otel"
)

// TokenStorageType represents the different storage types supported for the
// cached token mapping.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeEnv     TokenStorageType = "env"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
)

// AuthenticationMethod represents the different authentication methods supported.
type AuthenticationMethod string

const (
	// AuthenticationMethodNative drives the interactive browser-based
	// authorization-code flow and caches the resulting tokens.
	AuthenticationMethodNative AuthenticationMethod = "native"

	// AuthenticationMethodConfidential exchanges a client secret for
	// short-lived tokens on every run, without caching.
	AuthenticationMethodConfidential AuthenticationMethod = "confidential"
)

// Default configuration values
const (
	DefaultConfigLogExporter    = "stdout"
	DefaultConfigAuthMethod     = AuthenticationMethodNative
	DefaultConfigAuthStorage    = TokenStorageTypeFile
	DefaultConfigAuthFile       = "refresh-tokens.json"
	DefaultConfigSearchIndex    = "3e117028-2513-4f5b-b53c-90fda3cd328b"
	DefaultConfigSearchQuery    = "*"
	DefaultConfigKeyringService = "gsearch-tokens"
)

// AuthConfig describes how to construct the TokenStore and the
// authentication flow.
type AuthConfig struct {
	// Authentication method - how tokens are obtained
	Method AuthenticationMethod `json:"method" validate:"required,oneof=native confidential"`

	// Storage configuration - where the cached token mapping lives
	Storage TokenStorageType `json:"storage" validate:"required,oneof=file env keyring"`

	// Storage-specific settings (mutually exclusive based on Storage type)
	File        string `json:"file,omitempty"`         // For file storage: path to token file
	EnvKey      string `json:"env_key,omitempty"`      // For env storage: environment variable name
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier

	// Client registration with the identity provider
	ClientID     string   `json:"client_id" validate:"required"`
	ClientSecret string   `json:"client_secret,omitempty"`
	RedirectURL  string   `json:"redirect_url" validate:"required,url"`
	Scopes       []string `json:"scopes" validate:"required,min=1"`
}

// NewTokenStore creates a TokenStore from the authentication configuration.
func (a *AuthConfig) NewTokenStore() (tokenstore.TokenStore, error) {
	switch a.Storage {
	case TokenStorageTypeFile:
		return tokenstore.NewFileStore(a.File)
	case TokenStorageTypeEnv:
		return tokenstore.NewEnvStore(a.EnvKey)
	case TokenStorageTypeKeyring:
		return tokenstore.NewKeyringStore(DefaultConfigKeyringService, a.KeyringUser)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// SearchConfig holds the search-service query parameters.
type SearchConfig struct {
	BaseURL        string `json:"base_url" validate:"required,url"`
	ResourceServer string `json:"resource_server" validate:"required,hostname_rfc1123"`
	Index          string `json:"index" validate:"required"`
	Query          string `json:"query" validate:"required"`
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel    slog.Level   `json:"log_level"`
	LogFormat   LogFormat    `json:"log_format" validate:"oneof=text json otel"`
	LogExporter string       `json:"log_exporter" validate:"omitempty,oneof=stdout otlp otlp-grpc"`
	Auth        AuthConfig   `json:"auth"`
	Search      SearchConfig `json:"search"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		// Human-readable on an interactive terminal, machine-readable
		// otherwise.
		if term.IsTerminal(int(os.Stderr.Fd())) {
			c.LogFormat = LogFormatText
		} else {
			c.LogFormat = LogFormatJSON
		}
	}
	if c.LogExporter == "" {
		c.LogExporter = DefaultConfigLogExporter
	}
	if c.Auth.Method == "" {
		c.Auth.Method = DefaultConfigAuthMethod
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}
	if c.Auth.ClientID == "" {
		c.Auth.ClientID = authflow.DefaultClientID
	}
	if c.Auth.RedirectURL == "" {
		c.Auth.RedirectURL = authflow.DefaultRedirectURL
	}
	if len(c.Auth.Scopes) == 0 {
		c.Auth.Scopes = slices.Clone(authflow.DefaultScopes)
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = searchclient.DefaultBaseURL
	}
	if c.Search.ResourceServer == "" {
		c.Search.ResourceServer = searchclient.ResourceServer
	}
	if c.Search.Index == "" {
		c.Search.Index = DefaultConfigSearchIndex
	}
	if c.Search.Query == "" {
		c.Search.Query = DefaultConfigSearchQuery
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			c.Auth.File = DefaultConfigAuthFile
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Auth.KeyringUser = currentUser.Username
		}
	case TokenStorageTypeEnv:
		// env_key must be explicitly configured (no sensible default)
	}

	return nil
}

// Validate validates the configuration using struct tags and explicit
// cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// The provider issues client and index identifiers as UUIDs
	if _, err := uuid.Parse(c.Auth.ClientID); err != nil {
		return fmt.Errorf("auth.client_id is not a valid UUID: %w", err)
	}
	if _, err := uuid.Parse(c.Search.Index); err != nil {
		return fmt.Errorf("search.index is not a valid UUID: %w", err)
	}

	// The native flow must be able to persist refreshed tokens (env is read-only)
	if c.Auth.Method == AuthenticationMethodNative && c.Auth.Storage == TokenStorageTypeEnv {
		return errors.New("native authentication requires writable storage, env is read-only")
	}

	if c.Auth.Method == AuthenticationMethodConfidential && c.Auth.ClientSecret == "" {
		return errors.New("client_secret required for confidential authentication")
	}

	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			return errors.New("file path required for file storage")
		}
	case TokenStorageTypeEnv:
		if c.Auth.EnvKey == "" {
			return errors.New("env_key required for env storage")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	return nil
}
