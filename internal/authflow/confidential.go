package authflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"gsearch/internal/tokenstore"
)

// ConfidentialFlowOption configures a ConfidentialFlow.
type ConfidentialFlowOption func(*ConfidentialFlow)

// WithGrantTransport sets a custom base transport for the grant request.
// If not provided, http.DefaultTransport is used.
func WithGrantTransport(transport http.RoundTripper) ConfidentialFlowOption {
	return func(f *ConfidentialFlow) {
		f.transport = transport
	}
}

// ConfidentialFlow exchanges a pre-shared client secret directly for tokens,
// with no user interaction. The grant is scoped to whatever the application
// was pre-authorized for, and no refresh token is issued: the short-lived
// access tokens are simply re-requested on the next run.
type ConfidentialFlow struct {
	config *clientcredentials.Config

	transport http.RoundTripper
	now       func() time.Time
}

// Compile-time check to ensure ConfidentialFlow implements Authenticator
var _ Authenticator = (*ConfidentialFlow)(nil)

// NewConfidentialFlow creates a ConfidentialFlow for the given client
// registration.
func NewConfidentialFlow(clientID, clientSecret string, scopes []string, endpoint oauth2.Endpoint, opts ...ConfidentialFlowOption) *ConfidentialFlow {
	f := &ConfidentialFlow{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     endpoint.TokenURL,
			Scopes:       scopes,
			AuthStyle:    endpoint.AuthStyle,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Login requests a fresh token set from the provider.
func (f *ConfidentialFlow) Login(ctx context.Context) (tokenstore.TokenMap, error) {
	if f.transport != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: f.transport})
	}

	tok, err := f.config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("client credentials grant: %w", err)
	}

	return tokensByResourceServer(tok, f.now())
}
