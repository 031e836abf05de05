package authflow

import (
	"golang.org/x/oauth2"
)

const (
	// DefaultClientID identifies a demo application registered with Globus
	// Auth. Register your own app at developers.globus.org and override it
	// in the configuration for anything beyond experiments.
	DefaultClientID = "6c1629cf-446c-49e7-af95-323c6412397f"

	// DefaultRedirectURL is the provider-hosted page that displays the
	// authorization code for the user to copy back into the terminal.
	DefaultRedirectURL = "https://auth.globus.org/v2/web/auth-code"
)

// Endpoint defines the OAuth2 endpoints for Globus Auth.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://auth.globus.org/v2/oauth2/authorize",
	TokenURL: "https://auth.globus.org/v2/oauth2/token",
}

// DefaultScopes covers login identity plus the search service.
var DefaultScopes = []string{
	"openid",
	"email",
	"profile",
	"urn:globus:auth:scope:search.api.globus.org:search",
}
