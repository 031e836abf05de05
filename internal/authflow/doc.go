// Package authflow implements the two Globus Auth flows this client can use
// to obtain tokens.
//
// # Native app flow
//
// NativeFlow drives the interactive authorization-code flow for a public
// client (no secret, PKCE-protected): it prints the authorization URL, opens
// it in a local browser unless the process runs in a remote shell, reads the
// resulting authorization code from the console, and exchanges it for tokens.
// Refresh tokens are requested so later runs can renew access without user
// interaction.
//
// # Confidential app flow
//
// ConfidentialFlow performs a client-credentials grant: a pre-shared client
// secret is exchanged directly for short-lived access tokens, with no user
// interaction and no refresh token.
//
// Globus issues one token per resource server. Both flows return the full
// grant fanned out into a tokenstore.TokenMap keyed by resource-server name,
// built from the primary token fields plus the "other_tokens" list the token
// endpoint returns alongside them.
package authflow
