// Package service holds the marketplace business logic: role resolution,
// session issuance and every resource ownership decision.  Handlers only
// translate the errors below into HTTP responses.
package service

import "errors"

// Authentication failures (401).  Unknown email and wrong password share
// one error on purpose.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authorization failures (403).
var (
	ErrNoRole       = errors.New("no role assigned")
	ErrRoleRequired = errors.New("not authorized for this role")
	ErrNotPermitted = errors.New("not permitted on this resource")
)

// Conflicts (409).
var (
	ErrRoleExists        = errors.New("role already registered")
	ErrAlreadyFavorite   = errors.New("already in favorites")
	ErrAlreadyResponded  = errors.New("already responded")
	ErrContractNotActive = errors.New("contract is not accepted")
)

// Client input problems (400) detected past request validation.
var (
	ErrTokenMissing      = errors.New("token missing")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

var ErrNotFound = errors.New("not found")

// ErrExternalIdentity marks a failed third-party identity verification.
// It is reported as a server error.
var ErrExternalIdentity = errors.New("external identity verification failed")

// ErrStorageDisabled is returned for uploads when no bucket is configured.
var ErrStorageDisabled = errors.New("picture storage is not configured")
