package utils // package utils provides helpers for token creation and hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"

	"github.com/iliyamo/services-marketplace/internal/model"
)

// AccessTokenTTL is the fixed lifetime of every access token.  There is no
// refresh flow and no revocation, so expiry is the only way a token dies.
const AccessTokenTTL = time.Hour

// ErrTokenInvalid wraps every verification failure: bad signature,
// unexpected algorithm, expiry, or a malformed payload.
var ErrTokenInvalid = errors.New("token verification failed")

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// UserClaim is the identity snapshot carried in the token.
type UserClaim struct {
	ID    uint64   `json:"id"`
	Roles []string `json:"roles"`
}

// Claims is the token payload: {"user":{"id":..,"roles":[..]}} plus the
// registered exp, iat and sub claims.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// Identity returns the verified user id and role snapshot.
func (c *Claims) Identity() (uint64, model.RoleSet) {
	return c.User.ID, model.ParseRoleSet(c.User.Roles)
}

// NewAccessToken signs an HS256 token for userID carrying roles.  The
// token expires exactly AccessTokenTTL after issuance.
func NewAccessToken(secret string, userID uint64, roles model.RoleSet) (AccessToken, error) {
	return issueAccessToken(secret, userID, roles, time.Now().UTC())
}

func issueAccessToken(secret string, userID uint64, roles model.RoleSet, now time.Time) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, errors.New("empty signing secret")
	}
	exp := now.Add(AccessTokenTTL)
	names := roles.Strings()
	claims := Claims{
		User: UserClaim{ID: userID, Roles: names},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature, algorithm and expiry and returns the
// claims.  Any failure is reported as ErrTokenInvalid.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	if claims.User.ID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// NewResetToken returns a random, URL-safe password reset token.
func NewResetToken() string {
	return ksuid.New().String()
}

// HashToken returns the SHA-256 hex digest of a raw token.  Only digests
// are stored, so a leaked table cannot be replayed.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
