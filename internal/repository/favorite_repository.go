package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

type FavoriteRepo struct{ DB *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Add favorites a service.  Favoriting the same service twice yields
// ErrConflict.
func (r *FavoriteRepo) Add(ctx context.Context, clientID, serviceID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO favorites (client_id, service_id, created_at) VALUES (?,?,?)",
		clientID, serviceID, time.Now().UTC())
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// Remove deletes a favorite; sql.ErrNoRows when it did not exist.
func (r *FavoriteRepo) Remove(ctx context.Context, clientID, serviceID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE client_id=? AND service_id=?", clientID, serviceID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ListForClient returns the client's favorite services that are still
// visible.
func (r *FavoriteRepo) ListForClient(ctx context.Context, clientID uint64) ([]model.Service, error) {
	out := []model.Service{}
	err := r.DB.SelectContext(ctx, &out,
		serviceSelect+` JOIN favorites f ON f.service_id = s.id
		WHERE f.client_id=? AND s.is_hidden=0 ORDER BY f.id DESC`, clientID)
	return out, err
}
