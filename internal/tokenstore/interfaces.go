package tokenstore

import (
	"context"
	"time"
)

// Record is one service's token set, in the identity provider's wire format.
type Record struct {
	ResourceServer string `json:"resource_server,omitempty"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	ExpiresAt      int64  `json:"expires_at_seconds"`
	Scope          string `json:"scope,omitempty"`
	TokenType      string `json:"token_type,omitempty"`
}

// Expiry returns the access-token expiry as a time.Time.
func (r Record) Expiry() time.Time {
	return time.Unix(r.ExpiresAt, 0)
}

// TokenMap maps resource-server names to their token records.
type TokenMap map[string]Record

// TokenStore loads and saves the full token mapping.
type TokenStore interface {
	// Load returns the stored mapping. Returns an error if the mapping is
	// missing, empty, or cannot be parsed; callers treat any of these as a
	// cache miss.
	Load(ctx context.Context) (TokenMap, error)

	// Save replaces the stored mapping in full. Returns an error if the
	// storage backend is read-only (e.g., environment variables) or if the
	// write operation fails.
	Save(ctx context.Context, tokens TokenMap) error
}
