package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

const userColumns = `id, email, full_name, password_hash, auth_provider, phone, picture_key,
	bio, city, reset_token_hash, reset_expires_at, created_at, updated_at`

// UserRepo is the credential store.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an address.  Emails are stored
// normalized so lookups are case-insensitive on both drivers.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser holds the columns set at registration.
type NewUser struct {
	Email        string
	FullName     string
	PasswordHash string // empty for externally verified accounts
	AuthProvider string
	Phone        string
	City         string
}

// Create inserts a user and returns its id.  A duplicate email yields
// ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u NewUser) (uint64, error) {
	provider := u.AuthProvider
	if provider == "" {
		provider = model.AuthLocal
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, full_name, password_hash, auth_provider, phone, city, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		NormalizeEmail(u.Email), strings.TrimSpace(u.FullName), nullString(u.PasswordHash),
		provider, nullString(u.Phone), nullString(u.City), now, now)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return u, err
}

// ProfileUpdate carries editable profile fields.  Nil pointers are left
// unchanged.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Bio      *string
	City     *string
}

// UpdateProfile applies the non-nil fields of p.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p ProfileUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		sets = append(sets, col+"=?")
		if col == "full_name" {
			args = append(args, strings.TrimSpace(*v))
		} else {
			args = append(args, nullString(strings.TrimSpace(*v)))
		}
	}
	add("full_name", p.FullName)
	add("phone", p.Phone)
	add("bio", p.Bio)
	add("city", p.City)
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=?")
	args = append(args, time.Now().UTC(), id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// UpdatePassword replaces the password hash and marks the account as
// locally usable.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=? WHERE id=?",
		hash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// SetPicture stores the object key of the user's profile picture.
func (r *UserRepo) SetPicture(ctx context.Context, id uint64, key string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET picture_key=?, updated_at=? WHERE id=?",
		key, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// expectRow turns a zero-row update into sql.ErrNoRows.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
