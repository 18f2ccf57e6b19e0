package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func stubVerifier(payload *idtoken.Payload, err error) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: "client-123",
		validate: func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
			if audience != "client-123" {
				return nil, errors.New("audience mismatch")
			}
			return payload, err
		},
	}
}

func TestVerifyExtractsProfile(t *testing.T) {
	v := stubVerifier(&idtoken.Payload{
		Subject: "sub-1",
		Claims: map[string]interface{}{
			"email":          "Jane@Example.com",
			"email_verified": true,
			"given_name":     "Jane",
			"family_name":    "Doe",
		},
	}, nil)
	p, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, Profile{Subject: "sub-1", Email: "jane@example.com", Name: "Jane Doe"}, p)
}

func TestVerifyFallbacks(t *testing.T) {
	p, err := profileFromClaims("s", map[string]interface{}{"email": "solo@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "solo", p.Name)

	p, err = profileFromClaims("s", map[string]interface{}{"email": "x@example.com", "name": "Full Name"})
	require.NoError(t, err)
	assert.Equal(t, "Full Name", p.Name)
}

func TestVerifyRejects(t *testing.T) {
	_, err := stubVerifier(nil, errors.New("bad signature")).Verify(context.Background(), "tok")
	assert.EqualError(t, err, "bad signature")

	_, err = NewGoogleVerifier("").Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = profileFromClaims("s", map[string]interface{}{})
	assert.ErrorIs(t, err, ErrNoEmail)

	_, err = profileFromClaims("s", map[string]interface{}{"email": "a@b.c", "email_verified": false})
	assert.ErrorIs(t, err, ErrNoEmail)
}
