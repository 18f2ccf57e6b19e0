package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// ResetTokenRepo persists password reset tokens on the user row.  Only the
// SHA-256 hex digest of a token is stored.  A user has at most one live
// token; issuing a new one replaces the old.
type ResetTokenRepo struct{ DB *sqlx.DB }

func NewResetTokenRepo(db *sqlx.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// StoreReset records tokenHash for the user with the given expiry.
func (r *ResetTokenRepo) StoreReset(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_expires_at=? WHERE id=?",
		tokenHash, exp.UTC(), userID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ConsumeReset validates tokenHash and clears it so it cannot be used
// twice.  Unknown, expired and already used tokens all yield sql.ErrNoRows.
func (r *ResetTokenRepo) ConsumeReset(ctx context.Context, tokenHash string) (uint64, error) {
	var row struct {
		ID        uint64       `db:"id"`
		ExpiresAt sql.NullTime `db:"reset_expires_at"`
	}
	err := r.DB.GetContext(ctx, &row,
		"SELECT id, reset_expires_at FROM users WHERE reset_token_hash=? LIMIT 1", tokenHash)
	if err != nil {
		return 0, err
	}
	if !row.ExpiresAt.Valid || time.Now().UTC().After(row.ExpiresAt.Time) {
		return 0, sql.ErrNoRows
	}
	// the hash predicate makes concurrent consumers race for a single row
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=NULL, reset_expires_at=NULL WHERE id=? AND reset_token_hash=?",
		row.ID, tokenHash)
	if err != nil {
		return 0, err
	}
	if err := expectRow(res); err != nil {
		return 0, err
	}
	return row.ID, nil
}
