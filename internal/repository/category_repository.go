package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

type CategoryRepo struct{ DB *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	out := []model.Category{}
	err := r.DB.SelectContext(ctx, &out, "SELECT id, name FROM categories ORDER BY name")
	return out, err
}

func (r *CategoryRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM categories WHERE id=?", id); err != nil {
		return false, err
	}
	return n > 0, nil
}
