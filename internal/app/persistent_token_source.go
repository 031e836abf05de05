package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"gsearch/internal/tokenstore"
)

// PersistentTokenSource wraps an oauth2.TokenSource and writes the full
// token mapping back to the store whenever a refresh produces a new access
// token. Records for other resource servers are carried along unchanged so
// the whole-file overwrite never loses them.
type PersistentTokenSource struct {
	inner   oauth2.TokenSource
	store   tokenstore.TokenStore
	service string

	lastAccessToken atomic.Pointer[string]

	writeMu sync.Mutex
	tokens  tokenstore.TokenMap
}

// Compile-time check to ensure PersistentTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*PersistentTokenSource)(nil)

// NewPersistentTokenSource creates a PersistentTokenSource seeded with the
// current token mapping. service names the record the inner source refreshes.
func NewPersistentTokenSource(inner oauth2.TokenSource, store tokenstore.TokenStore, tokens tokenstore.TokenMap, service string) (*PersistentTokenSource, error) {
	if inner == nil {
		return nil, fmt.Errorf("missing token source")
	}
	if store == nil {
		return nil, fmt.Errorf("missing token store")
	}
	if tokens == nil {
		tokens = tokenstore.TokenMap{}
	}

	p := &PersistentTokenSource{
		inner:   inner,
		store:   store,
		service: service,
		tokens:  tokens,
	}

	// Remember the seed token to avoid an unnecessary write-back on the
	// first call to Token()
	if rec, ok := tokens[service]; ok {
		initial := rec.AccessToken
		p.lastAccessToken.Store(&initial)
	}

	return p, nil
}

// Token returns a valid token, refreshing if necessary and persisting the
// updated mapping.
func (p *PersistentTokenSource) Token() (*oauth2.Token, error) {
	fresh, err := p.inner.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token from token source: %w", err)
	}

	// Hot path: lock-free atomic read for minimal contention
	last := ""
	if ptr := p.lastAccessToken.Load(); ptr != nil {
		last = *ptr
	}

	// The provider rotates access tokens on refresh and keeps the refresh
	// token stable, so an access-token change is the refresh signal.
	if fresh.AccessToken != "" && fresh.AccessToken != last {
		p.writeMu.Lock()

		rec := p.tokens[p.service]
		rec.ResourceServer = p.service
		rec.AccessToken = fresh.AccessToken
		if fresh.RefreshToken != "" {
			rec.RefreshToken = fresh.RefreshToken
		}
		if fresh.TokenType != "" {
			rec.TokenType = fresh.TokenType
		}
		if !fresh.Expiry.IsZero() {
			rec.ExpiresAt = fresh.Expiry.Unix()
		}
		p.tokens[p.service] = rec

		// oauth2.TokenSource.Token() has no context parameter (legacy
		// interface); write-back is best effort and must not fail the run.
		ctx := context.Background()
		if err := p.store.Save(ctx, p.tokens); err != nil {
			// The in-memory token stays valid for this run; keeping the
			// old last value means the next call retries the write.
			slog.ErrorContext(ctx, "failed to persist refreshed tokens", "error", err)
		} else {
			updated := fresh.AccessToken
			p.lastAccessToken.Store(&updated)
		}

		p.writeMu.Unlock()
	}

	return fresh, nil
}
