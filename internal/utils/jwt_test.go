package utils

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/services-marketplace/internal/model"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(secret, 42, model.NewRoleSet(model.RoleClient))
	require.NoError(t, err)

	claims, err := ParseAccessToken(secret, tok.Token)
	require.NoError(t, err)
	id, roles := claims.Identity()
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, model.RoleSet{model.RoleClient}, roles)
	assert.Equal(t, "42", claims.Subject)
}

func TestAccessTokenPayloadShape(t *testing.T) {
	tok, err := NewAccessToken(secret, 7, model.NewRoleSet(model.RoleProvider, model.RoleClient))
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, map[string]any{"id": float64(7), "roles": []any{"client", "provider"}}, payload["user"])
	assert.Contains(t, payload, "exp")
	assert.Contains(t, payload, "iat")
}

func TestAccessTokenExpiresAfterOneHour(t *testing.T) {
	now := time.Now().UTC()
	tok, err := issueAccessToken(secret, 1, model.NewRoleSet(model.RoleClient), now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), tok.Exp)

	stale, err := issueAccessToken(secret, 1, model.NewRoleSet(model.RoleClient), now.Add(-61*time.Minute))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, stale.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAccessTokenRejectsTampering(t *testing.T) {
	tok, err := NewAccessToken(secret, 42, model.NewRoleSet(model.RoleClient))
	require.NoError(t, err)

	dot := strings.LastIndex(tok.Token, ".")
	sig := tok.Token[dot+1:]
	for i := range sig {
		forged := tok.Token[:dot+1] + flipSixBit(sig, i)
		_, err := ParseAccessToken(secret, forged)
		assert.ErrorIs(t, err, ErrTokenInvalid, "signature char %d", i)
	}

	_, err = ParseAccessToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// flipSixBit toggles the high data bit of the base64url character at i so
// the decoded signature always changes.
func flipSixBit(s string, i int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := []byte(s)
	b[i] = alphabet[strings.IndexByte(alphabet, b[i])^32]
	return string(b)
}

func TestAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{User: UserClaim{ID: 1, Roles: []string{"client"}}}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, none)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, hs512)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenRequiresExpiry(t *testing.T) {
	claims := Claims{User: UserClaim{ID: 1, Roles: []string{"client"}}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestEmptyRolesEncodeAsArray(t *testing.T) {
	tok, err := NewAccessToken(secret, 5, model.RoleSet{})
	require.NoError(t, err)
	claims, err := ParseAccessToken(secret, tok.Token)
	require.NoError(t, err)
	assert.NotNil(t, claims.User.Roles)
	assert.Empty(t, claims.User.Roles)
}

func TestResetTokenHashing(t *testing.T) {
	a, b := NewResetToken(), NewResetToken()
	assert.NotEqual(t, a, b)
	assert.Len(t, HashToken(a), 64)
	assert.Equal(t, HashToken(a), HashToken(a))
}

func TestPasswordVerify(t *testing.T) {
	h := NewPasswordHasher(4)
	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.True(t, h.Verify(hash, "s3cret!"))
	assert.False(t, h.Verify(hash, "wrong"))
	assert.False(t, h.Verify("", "s3cret!"))
}

func TestPasswordHasherDummyMatchesCost(t *testing.T) {
	for _, cost := range []int{4, 5, 6} {
		h := NewPasswordHasher(cost)
		got, err := bcrypt.Cost(h.dummy)
		require.NoError(t, err)
		assert.Equal(t, cost, got)

		hash, err := h.Hash("pw")
		require.NoError(t, err)
		got, err = bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, cost, got)
	}
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost())
}
