// Package auth is the identity boundary. The server never issues or
// validates credentials itself; a Verifier maps an opaque bearer token to
// the caller's identity and everything downstream trusts that identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rekindle/internal/config"
)

// ErrInvalidToken is returned for empty or unrecognized bearer tokens.
var ErrInvalidToken = errors.New("invalid bearer token")

// Identity is the authenticated caller.
type Identity struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Verifier resolves a bearer token to an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// staticVerifier looks tokens up in a fixed table from configuration.
type staticVerifier struct {
	identities map[string]Identity
}

// NewStaticVerifier builds a verifier over a token table where each value is
// "userID,email,displayName".
func NewStaticVerifier(tokens map[string]string) (Verifier, error) {
	identities := make(map[string]Identity, len(tokens))
	for token, entry := range tokens {
		parts := strings.SplitN(entry, ",", 3)
		if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("malformed auth token entry %q", entry)
		}
		identities[token] = Identity{
			UserID:      strings.TrimSpace(parts[0]),
			Email:       strings.TrimSpace(parts[1]),
			DisplayName: strings.TrimSpace(parts[2]),
		}
	}
	return &staticVerifier{identities: identities}, nil
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	identity, ok := v.identities[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return identity, nil
}

// insecureVerifier accepts any non-empty token and derives a stable identity
// from it. Local development only.
type insecureVerifier struct{}

// NewInsecureVerifier builds the development verifier.
func NewInsecureVerifier() Verifier {
	return insecureVerifier{}
}

func (insecureVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID:      "dev-" + token,
		Email:       token + "@localhost",
		DisplayName: token,
	}, nil
}

// FromConfig selects a verifier for the configured mode.
func FromConfig(cfg config.AuthConfig) (Verifier, error) {
	switch cfg.Mode {
	case "static":
		return NewStaticVerifier(cfg.Tokens)
	case "", "insecure":
		return NewInsecureVerifier(), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
