// Package tokenstore provides persistent storage abstractions for the
// per-resource-server token mapping.
//
// Supports three storage backends with different security and deployment tradeoffs:
//   - File: Local filesystem storage with atomic writes and secure permissions
//   - Env: Read-only environment variable access (requires external secret management)
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//
// Interactive authentication requires writable storage (file or keyring) so
// that refreshed tokens survive the run; the client-credentials flow never
// caches and can run without any writable backend.
package tokenstore
