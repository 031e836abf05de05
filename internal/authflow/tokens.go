package authflow

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"gsearch/internal/tokenstore"
)

// Authenticator obtains a token set keyed by resource-server name.
type Authenticator interface {
	Login(ctx context.Context) (tokenstore.TokenMap, error)
}

// tokensByResourceServer fans a token response out into the
// per-resource-server mapping. The provider returns the primary grant's
// fields on the token itself and sibling services under "other_tokens".
func tokensByResourceServer(tok *oauth2.Token, now time.Time) (tokenstore.TokenMap, error) {
	server := stringExtra(tok, "resource_server")
	if server == "" {
		return nil, fmt.Errorf("token response missing resource_server")
	}

	primary := tokenstore.Record{
		ResourceServer: server,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		Scope:          stringExtra(tok, "scope"),
		TokenType:      tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		primary.ExpiresAt = tok.Expiry.Unix()
	}

	tokens := tokenstore.TokenMap{server: primary}

	others, _ := tok.Extra("other_tokens").([]any)
	for _, raw := range others {
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed other_tokens entry of type %T", raw)
		}
		rec, err := recordFromFields(fields, now)
		if err != nil {
			return nil, err
		}
		tokens[rec.ResourceServer] = rec
	}

	return tokens, nil
}

// recordFromFields builds a Record from one other_tokens entry, converting
// the relative expires_in to an absolute timestamp.
func recordFromFields(fields map[string]any, now time.Time) (tokenstore.Record, error) {
	rec := tokenstore.Record{}
	rec.ResourceServer, _ = fields["resource_server"].(string)
	if rec.ResourceServer == "" {
		return rec, fmt.Errorf("other_tokens entry missing resource_server")
	}

	rec.AccessToken, _ = fields["access_token"].(string)
	if rec.AccessToken == "" {
		return rec, fmt.Errorf("other_tokens entry for %s missing access_token", rec.ResourceServer)
	}

	rec.RefreshToken, _ = fields["refresh_token"].(string)
	rec.Scope, _ = fields["scope"].(string)
	rec.TokenType, _ = fields["token_type"].(string)
	if expiresIn, ok := fields["expires_in"].(float64); ok {
		rec.ExpiresAt = now.Add(time.Duration(expiresIn) * time.Second).Unix()
	}

	return rec, nil
}

func stringExtra(tok *oauth2.Token, key string) string {
	s, _ := tok.Extra(key).(string)
	return s
}
