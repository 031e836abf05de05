// Package app ties configuration, authentication and the search call
// together for one run of the program.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/oauth2"

	"gsearch/internal/authflow"
	"gsearch/internal/searchclient"
	"gsearch/internal/tokenstore"
)

// App orchestrates one authenticated search invocation.
type App struct {
	cfg *Config

	store        tokenstore.TokenStore
	native       authflow.Authenticator
	confidential authflow.Authenticator
}

// Option overrides a collaborator, used by tests.
type Option func(*App)

// WithTokenStore replaces the token store built from configuration.
func WithTokenStore(store tokenstore.TokenStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithNativeAuthenticator replaces the interactive authenticator.
func WithNativeAuthenticator(auth authflow.Authenticator) Option {
	return func(a *App) {
		a.native = auth
	}
}

// WithConfidentialAuthenticator replaces the client-credentials authenticator.
func WithConfidentialAuthenticator(auth authflow.Authenticator) Option {
	return func(a *App) {
		a.confidential = auth
	}
}

// New creates a new App instance.
func New(cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		store, err := cfg.Auth.NewTokenStore()
		if err != nil {
			return nil, fmt.Errorf("failed to create token store: %w", err)
		}
		a.store = store
	}
	if a.native == nil {
		a.native = authflow.NewNativeFlow(cfg.Auth.ClientID, cfg.Auth.RedirectURL, cfg.Auth.Scopes, authflow.Endpoint)
	}
	if a.confidential == nil {
		a.confidential = authflow.NewConfidentialFlow(cfg.Auth.ClientID, cfg.Auth.ClientSecret, cfg.Auth.Scopes, authflow.Endpoint)
	}

	return a, nil
}

// TokenSource builds the authorizer for the configured resource server using
// the configured authentication method.
func (a *App) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	switch a.cfg.Auth.Method {
	case AuthenticationMethodNative:
		return a.nativeTokenSource(ctx)
	case AuthenticationMethodConfidential:
		return a.confidentialTokenSource(ctx)
	default:
		return nil, fmt.Errorf("unsupported authentication method: %s", a.cfg.Auth.Method)
	}
}

// nativeTokenSource returns a refreshing token source backed by the cached
// mapping, authenticating interactively on a cache miss. A failed save is
// tolerated: the run proceeds with in-memory tokens.
func (a *App) nativeTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tokens, err := a.store.Load(ctx)
	if err != nil {
		slog.DebugContext(ctx, "no usable token cache", "error", err)

		tokens, err = a.native.Login(ctx)
		if err != nil {
			return nil, fmt.Errorf("native app authentication: %w", err)
		}
		if err := a.store.Save(ctx, tokens); err != nil {
			slog.WarnContext(ctx, "failed to persist tokens, continuing with in-memory tokens", "error", err)
		}
	}

	service := a.cfg.Search.ResourceServer
	rec, ok := tokens[service]
	if !ok {
		return nil, fmt.Errorf("no token for resource server %s", service)
	}

	conf := &oauth2.Config{
		ClientID: a.cfg.Auth.ClientID,
		Scopes:   a.cfg.Auth.Scopes,
		Endpoint: authflow.Endpoint,
	}
	seed := &oauth2.Token{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		TokenType:    rec.TokenType,
		Expiry:       rec.Expiry(),
	}

	return NewPersistentTokenSource(conf.TokenSource(ctx, seed), a.store, tokens, service)
}

// confidentialTokenSource performs a fresh client-credentials grant and
// wraps the service's access token in a non-refreshing source. Nothing is
// cached: the grant is short-lived and re-requested on the next run.
func (a *App) confidentialTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tokens, err := a.confidential.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("client credentials authentication: %w", err)
	}

	service := a.cfg.Search.ResourceServer
	rec, ok := tokens[service]
	if !ok {
		return nil, fmt.Errorf("no token for resource server %s", service)
	}

	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: rec.AccessToken,
		TokenType:   rec.TokenType,
	}), nil
}

// Login runs the interactive flow unconditionally and persists the result,
// replacing any cached tokens.
func (a *App) Login(ctx context.Context) error {
	tokens, err := a.native.Login(ctx)
	if err != nil {
		return fmt.Errorf("native app authentication: %w", err)
	}

	if err := a.store.Save(ctx, tokens); err != nil {
		return fmt.Errorf("persisting tokens: %w", err)
	}

	slog.InfoContext(ctx, "tokens saved", "resource_servers", len(tokens))
	return nil
}

// Run executes the configured query and writes the indented JSON response
// to w.
func (a *App) Run(ctx context.Context, w io.Writer) error {
	tokenSource, err := a.TokenSource(ctx)
	if err != nil {
		return err
	}

	client, err := searchclient.New(tokenSource, searchclient.WithBaseURL(a.cfg.Search.BaseURL))
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	slog.InfoContext(ctx, "querying index", "index", a.cfg.Search.Index, "query", a.cfg.Search.Query)
	result, err := client.Search(ctx, a.cfg.Search.Index, a.cfg.Search.Query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, result, "", "    "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	buf.WriteByte('\n')

	_, err = w.Write(buf.Bytes())
	return err
}
