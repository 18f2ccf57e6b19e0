// Package identity verifies third-party identity assertions.
package identity

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

// Profile is what the marketplace needs from an external identity.
type Profile struct {
	Subject string
	Email   string
	Name    string
}

// ErrNotConfigured is returned when no client id is set.
var ErrNotConfigured = errors.New("google sign-in is not configured")

// ErrNoEmail is returned for assertions without a verified email.
var ErrNoEmail = errors.New("identity token carries no verified email")

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier validates Google ID tokens against one OAuth client id.
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify checks signature, issuer, expiry and audience, then extracts the
// email and display name.
func (g *GoogleVerifier) Verify(ctx context.Context, token string) (Profile, error) {
	if g.clientID == "" {
		return Profile{}, ErrNotConfigured
	}
	payload, err := g.validate(ctx, token, g.clientID)
	if err != nil {
		return Profile{}, err
	}
	return profileFromClaims(payload.Subject, payload.Claims)
}

func profileFromClaims(sub string, claims map[string]interface{}) (Profile, error) {
	email, _ := claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Profile{}, ErrNoEmail
	}
	// Google sends email_verified as a bool, some older tokens as a string
	switch v := claims["email_verified"].(type) {
	case bool:
		if !v {
			return Profile{}, ErrNoEmail
		}
	case string:
		if v != "true" {
			return Profile{}, ErrNoEmail
		}
	}

	name, _ := claims["name"].(string)
	if strings.TrimSpace(name) == "" {
		given, _ := claims["given_name"].(string)
		family, _ := claims["family_name"].(string)
		name = strings.TrimSpace(given + " " + family)
	}
	if name == "" {
		name = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}
	return Profile{Subject: sub, Email: email, Name: name}, nil
}
