package authflow

import "os"

// remoteSessionVars are the remote-shell indicator variables. When either is
// set there is no local display to open a browser on.
var remoteSessionVars = []string{"SSH_TTY", "SSH_CONNECTION"}

// IsRemoteSession reports whether the process appears to run inside a remote
// shell session. The check is a heuristic: a false negative only causes a
// harmless browser-launch attempt, since the authorization URL is printed
// either way. getenv is injectable for tests; nil means os.Getenv.
func IsRemoteSession(getenv func(string) string) bool {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range remoteSessionVars {
		if getenv(name) != "" {
			return true
		}
	}
	return false
}
