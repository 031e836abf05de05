package authflow

import (
	"context"
	"net/http"
	"net/url"
	"testing"
)

const clientCredentialsResponse = `{
	"access_token": "search-cc-access",
	"expires_in": 172800,
	"token_type": "Bearer",
	"resource_server": "search.api.globus.org",
	"scope": "urn:globus:auth:scope:search.api.globus.org:search"
}`

func TestConfidentialFlow_Login(t *testing.T) {
	transport := &mockTransport{responseBody: clientCredentialsResponse, responseStatus: http.StatusOK}
	flow := NewConfidentialFlow(
		DefaultClientID,
		"app-secret",
		[]string{"urn:globus:auth:scope:search.api.globus.org:search"},
		Endpoint,
		WithGrantTransport(transport),
	)

	tokens, err := flow.Login(context.Background())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	form, err := url.ParseQuery(string(transport.capturedBody))
	if err != nil {
		t.Fatalf("parsing grant body: %v", err)
	}
	if got := form.Get("grant_type"); got != "client_credentials" {
		t.Errorf("grant_type = %q, want client_credentials", got)
	}

	rec, ok := tokens["search.api.globus.org"]
	if !ok {
		t.Fatalf("expected record for search.api.globus.org, got %v", tokens)
	}
	if rec.AccessToken != "search-cc-access" {
		t.Errorf("access token = %q, want search-cc-access", rec.AccessToken)
	}
	if rec.RefreshToken != "" {
		t.Errorf("client credentials grant must not carry a refresh token, got %q", rec.RefreshToken)
	}
}

func TestConfidentialFlow_ProviderError(t *testing.T) {
	transport := &mockTransport{
		responseBody:   `{"error": "invalid_client"}`,
		responseStatus: http.StatusUnauthorized,
	}
	flow := NewConfidentialFlow(DefaultClientID, "wrong-secret", nil, Endpoint,
		WithGrantTransport(transport))

	if _, err := flow.Login(context.Background()); err == nil {
		t.Fatal("expected error for rejected client credentials")
	}
}
