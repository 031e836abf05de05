package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// EnvStore provides read-only access to a token mapping stored in an
// environment variable. Suitable for pre-issued tokens but not for flows
// that need to persist refreshed tokens.
type EnvStore struct {
	envKey string
}

// Compile-time check to ensure EnvStore implements TokenStore
var _ TokenStore = (*EnvStore)(nil)

// NewEnvStore creates an EnvStore for the given environment variable.
// Returns error if the variable name is empty or not set in the environment.
func NewEnvStore(envKey string) (*EnvStore, error) {
	if envKey == "" {
		return nil, fmt.Errorf("environment key cannot be empty")
	}

	if _, exists := os.LookupEnv(envKey); !exists {
		return nil, fmt.Errorf("environment variable %s not set", envKey)
	}

	return &EnvStore{
		envKey: envKey,
	}, nil
}

// Load parses the mapping from the environment variable.
func (e *EnvStore) Load(ctx context.Context) (TokenMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := os.Getenv(e.envKey)
	if raw == "" {
		return nil, fmt.Errorf("environment variable %s is empty", e.envKey)
	}

	var tokens TokenMap
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", e.envKey, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no token records in %s", e.envKey)
	}
	return tokens, nil
}

// Save is not supported for environment variables (they are read-only).
func (e *EnvStore) Save(ctx context.Context, tokens TokenMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fmt.Errorf("environment variable storage is read-only")
}
