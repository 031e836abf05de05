package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps the token mapping in OS-native secure credential storage.
// Uses macOS Keychain, Windows Credential Manager, or Linux Secret Service.
// The mapping is stored as a single JSON document under one keyring entry.
type KeyringStore struct {
	service string
	user    string
}

// Compile-time check to ensure KeyringStore implements TokenStore
var _ TokenStore = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore using the given service and user
// identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	return &KeyringStore{
		service: service,
		user:    user,
	}, nil
}

// Load parses the mapping from the system keyring. Returns an error if the
// entry is missing or malformed.
func (k *KeyringStore) Load(ctx context.Context) (TokenMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	secret, err := keyring.Get(k.service, k.user)
	if err != nil {
		return nil, err
	}

	var tokens TokenMap
	if err := json.Unmarshal([]byte(secret), &tokens); err != nil {
		return nil, fmt.Errorf("parsing keyring entry for service %s, user %s: %w", k.service, k.user, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty keyring entry for service %s, user %s", k.service, k.user)
	}
	return tokens, nil
}

// Save persists the mapping to the system keyring, overwriting any existing
// entry.
func (k *KeyringStore) Save(ctx context.Context, tokens TokenMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encoding token mapping: %w", err)
	}

	return keyring.Set(k.service, k.user, string(data))
}
