package utils

import (
	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PasswordHasher hashes and verifies local passwords at one bcrypt cost.
// Accounts without a password are compared against a throwaway hash of the
// same cost, so a missing account costs as much as a wrong password.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher prepares a hasher for cost.  Costs below bcrypt's
// minimum are raised to bcrypt.DefaultCost, as bcrypt itself would do.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	h := &PasswordHasher{cost: cost}
	// random input; nothing can match it
	h.dummy, _ = bcrypt.GenerateFromPassword([]byte(ksuid.New().String()), cost)
	return h
}

// Cost is the bcrypt work factor used for new hashes.
func (h *PasswordHasher) Cost() int { return h.cost }

// Hash returns a bcrypt hash of plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	return HashPassword(plain, h.cost)
}

// Verify compares a bcrypt hash with a plain password.  An empty hash (an
// externally verified account, or no account at all) never matches.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	if hash == "" {
		if h.dummy != nil {
			_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
		}
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
