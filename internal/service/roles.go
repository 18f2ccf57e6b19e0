package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/repository"
)

// RoleResolver derives a user's roles from profile presence.  Nothing is
// cached; every login recomputes the set.
type RoleResolver struct {
	Profiles *repository.ProfileRepo
}

func NewRoleResolver(p *repository.ProfileRepo) *RoleResolver {
	return &RoleResolver{Profiles: p}
}

// Resolve returns the user's roles in canonical order.  The set may be
// empty; callers decide what an empty set means.
func (r *RoleResolver) Resolve(ctx context.Context, userID uint64) (model.RoleSet, error) {
	p, err := r.Profiles.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Roles(), nil
}

// ResolveProfiles returns the profile ids behind the roles.
func (r *RoleResolver) ResolveProfiles(ctx context.Context, userID uint64) (model.Profiles, error) {
	return r.Profiles.Lookup(ctx, userID)
}

// requireClient returns the caller's client profile id or ErrRoleRequired.
func requireClient(ctx context.Context, p *repository.ProfileRepo, userID uint64) (uint64, error) {
	id, err := p.ClientIDByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRoleRequired
	}
	return id, err
}

// requireProvider returns the caller's provider profile id or
// ErrRoleRequired.
func requireProvider(ctx context.Context, p *repository.ProfileRepo, userID uint64) (uint64, error) {
	id, err := p.ProviderIDByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRoleRequired
	}
	return id, err
}

// notFound maps sql.ErrNoRows to ErrNotFound and passes anything else
// through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
