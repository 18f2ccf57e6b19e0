package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/queue"
	"github.com/iliyamo/services-marketplace/internal/repository"
	"github.com/iliyamo/services-marketplace/internal/storage"
	"github.com/iliyamo/services-marketplace/internal/utils"
)

// Session is the outcome of every successful login or registration.
type Session struct {
	Token    utils.AccessToken
	User     model.User
	Profiles model.Profiles
	Roles    model.RoleSet
}

// RegisterInput is the validated body of a registration request.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	City     string
}

// AuthService issues sessions from local credentials or external
// identities and manages passwords and profile data.
type AuthService struct {
	Users     *repository.UserRepo
	Profiles  *repository.ProfileRepo
	Resets    *repository.ResetTokenRepo
	Roles     *RoleResolver
	Verifier  IdentityVerifier
	Events    EventPublisher
	Store     ObjectStore // nil disables picture uploads
	Secret    string
	Passwords *utils.PasswordHasher
	ResetTTL  time.Duration
	Log       *zap.Logger
}

// Login checks a local password.  Unknown emails, wrong passwords and
// accounts without a local password all yield ErrInvalidCredentials.  A
// user with no profile at all is refused with ErrNoRole.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		// burn a comparison at the configured cost so timing matches
		// the wrong-password path
		s.Passwords.Verify("", password)
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !s.Passwords.Verify(u.PasswordHash.String, password) {
		return Session{}, ErrInvalidCredentials
	}

	// Roles are resolved fresh on every login, never cached.
	profiles, err := s.Roles.ResolveProfiles(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}
	roles := profiles.Roles()
	if roles.Empty() {
		return Session{}, ErrNoRole
	}
	return s.issue(u, profiles, roles)
}

// LoginWithGoogle verifies a Google ID token, creates a password-less user
// for unseen emails and issues a session.  A user without any profile is
// given the client role in the token only; no profile row is created.
func (s *AuthService) LoginWithGoogle(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrTokenMissing
	}
	if s.Verifier == nil {
		return Session{}, ErrExternalIdentity
	}
	ext, err := s.Verifier.Verify(ctx, token)
	if err != nil {
		s.logger().Debug("google token rejected", zap.Error(err))
		return Session{}, fmt.Errorf("%w: %v", ErrExternalIdentity, err)
	}

	u, err := s.findOrCreateBridged(ctx, ext.Email, ext.Name)
	if err != nil {
		return Session{}, err
	}
	profiles, err := s.Roles.ResolveProfiles(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}
	roles := profiles.Roles()
	if roles.Empty() {
		roles = model.NewRoleSet(model.RoleClient)
	}
	return s.issue(u, profiles, roles)
}

func (s *AuthService) findOrCreateBridged(ctx context.Context, email, name string) (model.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}
	id, err := s.Users.Create(ctx, repository.NewUser{
		Email:        email,
		FullName:     name,
		AuthProvider: model.AuthGoogle,
	})
	if errors.Is(err, repository.ErrConflict) {
		// a concurrent first login created it
		return s.Users.GetByEmail(ctx, email)
	}
	if err != nil {
		return model.User{}, err
	}
	return s.Users.GetByID(ctx, id)
}

// Register creates the account when the email is new, or adds the role to
// an existing account whose password matches.  created reports whether a
// new user row was inserted.
func (s *AuthService) Register(ctx context.Context, role model.Role, in RegisterInput) (sess Session, created bool, err error) {
	if !role.Valid() {
		return Session{}, false, fmt.Errorf("unknown role %q", role)
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, sql.ErrNoRows) {
		u, err = s.createLocal(ctx, in)
		if err == nil {
			created = true
		} else if errors.Is(err, repository.ErrConflict) {
			// a concurrent registration inserted the user first; treat
			// this request as adding a role to that account
			u, err = s.Users.GetByEmail(ctx, in.Email)
		}
	}
	if err != nil {
		return Session{}, false, err
	}
	if !created && !s.Passwords.Verify(u.PasswordHash.String, in.Password) {
		return Session{}, false, ErrInvalidCredentials
	}

	if role == model.RoleClient {
		_, err = s.Profiles.CreateClient(ctx, u.ID)
	} else {
		_, err = s.Profiles.CreateProvider(ctx, u.ID)
	}
	if errors.Is(err, repository.ErrConflict) {
		return Session{}, false, ErrRoleExists
	}
	if err != nil {
		return Session{}, false, err
	}

	profiles, err := s.Roles.ResolveProfiles(ctx, u.ID)
	if err != nil {
		return Session{}, false, err
	}
	roles := profiles.Roles()
	sess, err = s.issue(u, profiles, roles)
	if err != nil {
		return Session{}, false, err
	}
	emit(ctx, s.Events, s.logger(), queue.UserRegistered, queue.UserRegisteredPayload{
		UserID: u.ID, Email: u.Email, Role: string(role), Roles: roles.Strings(),
	})
	return sess, created, nil
}

func (s *AuthService) createLocal(ctx context.Context, in RegisterInput) (model.User, error) {
	hash, err := s.Passwords.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}
	id, err := s.Users.Create(ctx, repository.NewUser{
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Phone:        in.Phone,
		City:         in.City,
	})
	if err != nil {
		return model.User{}, err
	}
	return s.Users.GetByID(ctx, id)
}

func (s *AuthService) issue(u model.User, profiles model.Profiles, roles model.RoleSet) (Session, error) {
	tok, err := utils.NewAccessToken(s.Secret, u.ID, roles)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: tok, User: u, Profiles: profiles, Roles: roles}, nil
}

// ForgotPassword issues a single-use reset token when the email belongs to
// a user and hands it to the mailer through an event.  Unknown emails are
// silently ignored so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger().Debug("password reset for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	raw := utils.NewResetToken()
	exp := time.Now().UTC().Add(s.resetTTL())
	if err := s.Resets.StoreReset(ctx, u.ID, utils.HashToken(raw), exp); err != nil {
		return err
	}
	emit(ctx, s.Events, s.logger(), queue.PasswordResetRequested, queue.PasswordResetPayload{
		UserID: u.ID, Email: u.Email, Token: raw, ExpiresAt: exp,
	})
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := s.Resets.ConsumeReset(ctx, utils.HashToken(strings.TrimSpace(token)))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}

// ProfileView is the authenticated user's own profile.
type ProfileView struct {
	User       model.User
	Profiles   model.Profiles
	Roles      model.RoleSet
	PictureURL string
}

// Profile loads the caller's user row with freshly resolved roles.
func (s *AuthService) Profile(ctx context.Context, userID uint64) (ProfileView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return ProfileView{}, notFound(err)
	}
	profiles, err := s.Roles.ResolveProfiles(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}
	view := ProfileView{User: u, Profiles: profiles, Roles: profiles.Roles()}
	if s.Store != nil && u.PictureKey.Valid {
		url, err := s.Store.URL(ctx, u.PictureKey.String)
		if err != nil {
			s.logger().Warn("presign picture failed", zap.Uint64("user_id", userID), zap.Error(err))
		}
		view.PictureURL = url
	}
	return view, nil
}

// UpdateProfile applies editable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, p repository.ProfileUpdate) error {
	return notFound(s.Users.UpdateProfile(ctx, userID, p))
}

// SetPicture validates and stores a PNG or JPEG picture, replacing any
// previous one, and returns a presigned URL.
func (s *AuthService) SetPicture(ctx context.Context, userID uint64, body []byte) (string, error) {
	if s.Store == nil {
		return "", ErrStorageDisabled
	}
	contentType, ext, err := storage.DetectImage(body)
	if err != nil {
		return "", err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", notFound(err)
	}
	key := storage.PictureKey(userID, ext)
	if err := s.Store.Put(ctx, key, contentType, body); err != nil {
		return "", err
	}
	if err := s.Users.SetPicture(ctx, userID, key); err != nil {
		return "", err
	}
	if u.PictureKey.Valid {
		if err := s.Store.Delete(ctx, u.PictureKey.String); err != nil {
			s.logger().Warn("delete old picture failed", zap.String("key", u.PictureKey.String), zap.Error(err))
		}
	}
	return s.Store.URL(ctx, key)
}

func (s *AuthService) resetTTL() time.Duration {
	if s.ResetTTL <= 0 {
		return time.Hour
	}
	return s.ResetTTL
}

func (s *AuthService) logger() *zap.Logger { return nopIfNil(s.Log) }
