// internal/identity/identity.go
//
// Reviewer identity. Read from config or the environment; everything
// downstream only ever asks "who is this, if anyone" and never writes
// back.

package identity

import (
	"os"
	"strings"
)

// EnvReviewer is consulted when the config carries no reviewer email.
const EnvReviewer = "GUIDELENS_REVIEWER"

// Provider reports the current reviewer identity, if a session exists.
type Provider interface {
	// CurrentEmail returns the reviewer email and whether one is set.
	CurrentEmail() (string, bool)
}

// Static is a Provider with a fixed email. The zero value reports no
// session.
type Static string

// CurrentEmail implements Provider.
func (s Static) CurrentEmail() (string, bool) {
	email := strings.TrimSpace(string(s))
	return email, email != ""
}

// FromConfig builds a Provider from the configured email, falling back
// to the environment when the config is blank.
func FromConfig(configured string) Provider {
	if email := strings.TrimSpace(configured); email != "" {
		return Static(email)
	}
	return Static(strings.TrimSpace(os.Getenv(EnvReviewer)))
}
