package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

// ProfileRepo manages client and provider profile rows.  Their presence is
// the only signal for the client and provider roles.
type ProfileRepo struct{ DB *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// CreateClient adds a client profile for the user.  A second profile for
// the same user yields ErrConflict.
func (r *ProfileRepo) CreateClient(ctx context.Context, userID uint64) (uint64, error) {
	return r.create(ctx, "client_profiles", userID)
}

// CreateProvider adds a provider profile for the user.
func (r *ProfileRepo) CreateProvider(ctx context.Context, userID uint64) (uint64, error) {
	return r.create(ctx, "provider_profiles", userID)
}

func (r *ProfileRepo) create(ctx context.Context, table string, userID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO "+table+" (user_id, created_at) VALUES (?,?)", userID, time.Now().UTC())
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

// ClientIDByUser returns the client profile id, or sql.ErrNoRows.
func (r *ProfileRepo) ClientIDByUser(ctx context.Context, userID uint64) (uint64, error) {
	var id uint64
	err := r.DB.GetContext(ctx, &id, "SELECT id FROM client_profiles WHERE user_id=? LIMIT 1", userID)
	return id, err
}

// ProviderIDByUser returns the provider profile id, or sql.ErrNoRows.
func (r *ProfileRepo) ProviderIDByUser(ctx context.Context, userID uint64) (uint64, error) {
	var id uint64
	err := r.DB.GetContext(ctx, &id, "SELECT id FROM provider_profiles WHERE user_id=? LIMIT 1", userID)
	return id, err
}

// Lookup returns both profile ids of a user; missing profiles are nil.
func (r *ProfileRepo) Lookup(ctx context.Context, userID uint64) (model.Profiles, error) {
	var p model.Profiles
	cid, err := r.ClientIDByUser(ctx, userID)
	switch {
	case err == nil:
		p.ClientID = &cid
	case !errors.Is(err, sql.ErrNoRows):
		return model.Profiles{}, err
	}
	pid, err := r.ProviderIDByUser(ctx, userID)
	switch {
	case err == nil:
		p.ProviderID = &pid
	case !errors.Is(err, sql.ErrNoRows):
		return model.Profiles{}, err
	}
	return p, nil
}
