package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

type ReviewRepo struct{ DB *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

func (r *ReviewRepo) Create(ctx context.Context, serviceID, clientID uint64, rating int, comment string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (service_id, client_id, rating, comment, created_at) VALUES (?,?,?,?,?)",
		serviceID, clientID, rating, strings.TrimSpace(comment), time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListForService returns the reviews of a service, newest first, with the
// average rating (0 when there are none).
func (r *ReviewRepo) ListForService(ctx context.Context, serviceID uint64) ([]model.Review, float64, error) {
	out := []model.Review{}
	err := r.DB.SelectContext(ctx, &out,
		`SELECT r.id, r.service_id, r.client_id, u.full_name AS client_name, r.rating, r.comment, r.created_at
		 FROM reviews r
		 JOIN client_profiles cp ON cp.id = r.client_id
		 JOIN users u ON u.id = cp.user_id
		 WHERE r.service_id=? ORDER BY r.id DESC`, serviceID)
	if err != nil {
		return nil, 0, err
	}
	var avg sql.NullFloat64
	if err := r.DB.GetContext(ctx, &avg,
		"SELECT AVG(rating) FROM reviews WHERE service_id=?", serviceID); err != nil {
		return nil, 0, err
	}
	return out, avg.Float64, nil
}
