package model

import (
	"database/sql"
	"time"
)

const (
	AuthLocal  = "local"
	AuthGoogle = "google"
)

// User mirrors the `users` table.  PasswordHash is NULL for accounts created
// through an external identity provider; such accounts can never pass a
// local password check.
type User struct {
	ID             uint64         `db:"id"`
	Email          string         `db:"email"`
	FullName       string         `db:"full_name"`
	PasswordHash   sql.NullString `db:"password_hash"`
	AuthProvider   string         `db:"auth_provider"`
	Phone          sql.NullString `db:"phone"`
	PictureKey     sql.NullString `db:"picture_key"`
	Bio            sql.NullString `db:"bio"`
	City           sql.NullString `db:"city"`
	ResetTokenHash sql.NullString `db:"reset_token_hash"`
	ResetExpiresAt sql.NullTime   `db:"reset_expires_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// HasPassword reports whether the account can log in locally.
func (u User) HasPassword() bool {
	return u.PasswordHash.Valid && u.PasswordHash.String != ""
}

// ClientProfile exists when the user opted into the client role.
type ClientProfile struct {
	ID        uint64    `db:"id"`
	UserID    uint64    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// ProviderProfile exists when the user opted into the provider role.
type ProviderProfile struct {
	ID        uint64    `db:"id"`
	UserID    uint64    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Profiles holds the role-specific profile ids of one user.  A nil pointer
// means the profile does not exist.
type Profiles struct {
	ClientID   *uint64
	ProviderID *uint64
}

// Roles derives the role set from profile presence.
func (p Profiles) Roles() RoleSet {
	var roles []Role
	if p.ClientID != nil {
		roles = append(roles, RoleClient)
	}
	if p.ProviderID != nil {
		roles = append(roles, RoleProvider)
	}
	return NewRoleSet(roles...)
}
