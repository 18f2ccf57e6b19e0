package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

const serviceSelect = `SELECT s.id, s.provider_id, s.category_id, c.name AS category_name,
	u.full_name AS provider_name, s.name, s.description, s.hourly_price, s.experience_years,
	s.is_hidden, s.created_at, s.updated_at
	FROM services s
	JOIN categories c ON c.id = s.category_id
	JOIN provider_profiles p ON p.id = s.provider_id
	JOIN users u ON u.id = p.user_id`

// ServiceRepo provides persistence for provider services.
type ServiceRepo struct{ DB *sqlx.DB }

func NewServiceRepo(db *sqlx.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

// ServiceInput holds the writable columns of a service.
type ServiceInput struct {
	CategoryID      uint64
	Name            string
	Description     string
	HourlyPrice     float64
	ExperienceYears int
}

// Create inserts a visible service owned by providerID.
func (r *ServiceRepo) Create(ctx context.Context, providerID uint64, in ServiceInput) (uint64, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO services (provider_id, category_id, name, description, hourly_price, experience_years, is_hidden, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,0,?,?)`,
		providerID, in.CategoryID, strings.TrimSpace(in.Name), in.Description,
		in.HourlyPrice, in.ExperienceYears, now, now)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns a service regardless of its hidden flag.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	var s model.Service
	err := r.DB.GetContext(ctx, &s, serviceSelect+" WHERE s.id=? LIMIT 1", id)
	return s, err
}

// GetVisible returns a service only when it is not hidden.
func (r *ServiceRepo) GetVisible(ctx context.Context, id uint64) (model.Service, error) {
	var s model.Service
	err := r.DB.GetContext(ctx, &s, serviceSelect+" WHERE s.id=? AND s.is_hidden=0 LIMIT 1", id)
	return s, err
}

// ListVisible returns visible services, newest first.
func (r *ServiceRepo) ListVisible(ctx context.Context, f model.ServiceFilter) ([]model.Service, error) {
	where := []string{"s.is_hidden=0"}
	args := []any{}
	if f.CategoryID > 0 {
		where = append(where, "s.category_id=?")
		args = append(args, f.CategoryID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "(s.name LIKE ? OR s.description LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	out := []model.Service{}
	err := r.DB.SelectContext(ctx, &out,
		serviceSelect+" WHERE "+strings.Join(where, " AND ")+" ORDER BY s.created_at DESC, s.id DESC LIMIT ? OFFSET ?",
		args...)
	return out, err
}

// ListByProvider returns every service of a provider, hidden ones included.
func (r *ServiceRepo) ListByProvider(ctx context.Context, providerID uint64) ([]model.Service, error) {
	out := []model.Service{}
	err := r.DB.SelectContext(ctx, &out,
		serviceSelect+" WHERE s.provider_id=? ORDER BY s.id", providerID)
	return out, err
}

// Update changes a service owned by providerID.  It returns sql.ErrNoRows
// when the service does not exist and ErrForbidden when another provider
// owns it.
func (r *ServiceRepo) Update(ctx context.Context, id, providerID uint64, in ServiceInput) error {
	if err := r.checkOwner(ctx, id, providerID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE services SET category_id=?, name=?, description=?, hourly_price=?, experience_years=?, updated_at=?
		 WHERE id=? AND provider_id=?`,
		in.CategoryID, strings.TrimSpace(in.Name), in.Description, in.HourlyPrice,
		in.ExperienceYears, time.Now().UTC(), id, providerID)
	return err
}

// Hide soft-deletes a service owned by providerID.
func (r *ServiceRepo) Hide(ctx context.Context, id, providerID uint64) error {
	if err := r.checkOwner(ctx, id, providerID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE services SET is_hidden=1, updated_at=? WHERE id=? AND provider_id=?",
		time.Now().UTC(), id, providerID)
	return err
}

func (r *ServiceRepo) checkOwner(ctx context.Context, id, providerID uint64) error {
	var owner uint64
	err := r.DB.GetContext(ctx, &owner, "SELECT provider_id FROM services WHERE id=?", id)
	if err != nil {
		return err
	}
	if owner != providerID {
		return ErrForbidden
	}
	return nil
}
