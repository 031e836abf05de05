package authflow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"gsearch/internal/tokenstore"
)

// NativeFlowOption configures a NativeFlow.
type NativeFlowOption func(*NativeFlow)

// WithPrompt redirects the authorization-code prompt I/O.
// Defaults to stdin for input and stderr for output.
func WithPrompt(in io.Reader, out io.Writer) NativeFlowOption {
	return func(f *NativeFlow) {
		f.in = in
		f.out = out
	}
}

// WithBrowserOpener replaces the browser launcher.
func WithBrowserOpener(open func(url string) error) NativeFlowOption {
	return func(f *NativeFlow) {
		f.open = open
	}
}

// WithEnviron replaces environment lookup for remote-session detection.
func WithEnviron(getenv func(string) string) NativeFlowOption {
	return func(f *NativeFlow) {
		f.getenv = getenv
	}
}

// WithTransport sets a custom base transport for the code exchange.
// If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) NativeFlowOption {
	return func(f *NativeFlow) {
		f.transport = transport
	}
}

// NativeFlow drives the interactive authorization-code flow for a public
// client. No long-lived secret is stored; refresh capability comes from the
// offline_access grant requested during login.
type NativeFlow struct {
	config *oauth2.Config

	in        io.Reader
	out       io.Writer
	open      func(url string) error
	getenv    func(string) string
	transport http.RoundTripper
	now       func() time.Time
}

// Compile-time check to ensure NativeFlow implements Authenticator
var _ Authenticator = (*NativeFlow)(nil)

// NewNativeFlow creates a NativeFlow for the given client registration.
func NewNativeFlow(clientID, redirectURL string, scopes []string, endpoint oauth2.Endpoint, opts ...NativeFlowOption) *NativeFlow {
	f := &NativeFlow{
		config: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Scopes:      scopes,
			Endpoint:    endpoint,
		},
		in:     os.Stdin,
		out:    os.Stderr,
		open:   openBrowser,
		getenv: os.Getenv,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Login runs the flow once and returns the granted tokens keyed by
// resource-server name.
func (f *NativeFlow) Login(ctx context.Context) (tokenstore.TokenMap, error) {
	verifier := oauth2.GenerateVerifier()

	// AccessTypeOffline asks the provider for refresh tokens.
	authURL := f.config.AuthCodeURL(
		uuid.NewString(),
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintf(f.out, "Native App Authorization URL:\n%s\n", authURL)

	if IsRemoteSession(f.getenv) {
		fmt.Fprintln(f.out, "Remote session detected, open the URL in a local browser.")
	} else if err := f.open(authURL); err != nil {
		// The printed URL still works, so a failed launch is not fatal.
		fmt.Fprintf(f.out, "Could not open a browser: %v\n", err)
	}

	code, err := f.readCode()
	if err != nil {
		return nil, err
	}

	// A malformed or empty code is not validated here; the provider rejects
	// it during the exchange.
	if f.transport != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: f.transport})
	}
	tok, err := f.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	return tokensByResourceServer(tok, f.now())
}

// readCode prompts the user and reads one line from the console.
func (f *NativeFlow) readCode() (string, error) {
	fmt.Fprint(f.out, "Enter the auth code: ")

	line, err := bufio.NewReader(f.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading authorization code: %w", err)
	}

	return strings.TrimSpace(line), nil
}
