package authflow

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokensByResourceServer(t *testing.T) {
	now := time.Unix(1756000000, 0)
	expiry := now.Add(48 * time.Hour)

	tok := (&oauth2.Token{
		AccessToken:  "auth-access",
		RefreshToken: "auth-refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}).WithExtra(map[string]any{
		"resource_server": "auth.globus.org",
		"scope":           "openid email profile",
		"other_tokens": []any{
			map[string]any{
				"resource_server": "search.api.globus.org",
				"access_token":    "search-access",
				"refresh_token":   "search-refresh",
				"token_type":      "Bearer",
				"scope":           "urn:globus:auth:scope:search.api.globus.org:search",
				"expires_in":      float64(172800),
			},
		},
	})

	tokens, err := tokensByResourceServer(tok, now)
	if err != nil {
		t.Fatalf("tokensByResourceServer: %v", err)
	}

	if len(tokens) != 2 {
		t.Fatalf("expected 2 records, got %d: %v", len(tokens), tokens)
	}

	primary := tokens["auth.globus.org"]
	if primary.AccessToken != "auth-access" {
		t.Errorf("primary access token = %q, want %q", primary.AccessToken, "auth-access")
	}
	if primary.RefreshToken != "auth-refresh" {
		t.Errorf("primary refresh token = %q, want %q", primary.RefreshToken, "auth-refresh")
	}
	if primary.ExpiresAt != expiry.Unix() {
		t.Errorf("primary expires_at = %d, want %d", primary.ExpiresAt, expiry.Unix())
	}

	search := tokens["search.api.globus.org"]
	if search.AccessToken != "search-access" {
		t.Errorf("search access token = %q, want %q", search.AccessToken, "search-access")
	}
	if want := now.Add(172800 * time.Second).Unix(); search.ExpiresAt != want {
		t.Errorf("search expires_at = %d, want %d", search.ExpiresAt, want)
	}
	if search.Scope != "urn:globus:auth:scope:search.api.globus.org:search" {
		t.Errorf("unexpected search scope %q", search.Scope)
	}
}

func TestTokensByResourceServer_MissingResourceServer(t *testing.T) {
	tok := &oauth2.Token{AccessToken: "access"}
	if _, err := tokensByResourceServer(tok, time.Now()); err == nil {
		t.Fatal("expected error for response without resource_server")
	}
}

func TestTokensByResourceServer_MalformedOtherTokens(t *testing.T) {
	tok := (&oauth2.Token{AccessToken: "access"}).WithExtra(map[string]any{
		"resource_server": "auth.globus.org",
		"other_tokens":    []any{"not-an-object"},
	})
	if _, err := tokensByResourceServer(tok, time.Now()); err == nil {
		t.Fatal("expected error for malformed other_tokens entry")
	}
}
