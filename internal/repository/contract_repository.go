package repository // repository for contract persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

const contractSelect = `SELECT k.id, k.client_id, k.service_id, s.provider_id, s.name AS service_name,
	k.hours, k.price, k.status, k.offered_at, k.responded_at, k.completed_at
	FROM contracts k
	JOIN services s ON s.id = k.service_id`

// ContractRepo provides persistence for contracts.  The provider of a
// contract is always derived from its service.
type ContractRepo struct{ DB *sqlx.DB }

func NewContractRepo(db *sqlx.DB) *ContractRepo { return &ContractRepo{DB: db} }

// Create inserts a pending contract with a frozen price.
func (r *ContractRepo) Create(ctx context.Context, clientID, serviceID uint64, hours int, price float64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contracts (client_id, service_id, hours, price, status, offered_at) VALUES (?,?,?,?,?,?)",
		clientID, serviceID, hours, price, model.ContractPending, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *ContractRepo) GetByID(ctx context.Context, id uint64) (model.Contract, error) {
	var k model.Contract
	err := r.DB.GetContext(ctx, &k, contractSelect+" WHERE k.id=? LIMIT 1", id)
	return k, err
}

func (r *ContractRepo) ListForClient(ctx context.Context, clientID uint64) ([]model.Contract, error) {
	out := []model.Contract{}
	err := r.DB.SelectContext(ctx, &out, contractSelect+" WHERE k.client_id=? ORDER BY k.id DESC", clientID)
	return out, err
}

func (r *ContractRepo) ListForProvider(ctx context.Context, providerID uint64) ([]model.Contract, error) {
	out := []model.Contract{}
	err := r.DB.SelectContext(ctx, &out, contractSelect+" WHERE s.provider_id=? ORDER BY k.id DESC", providerID)
	return out, err
}

// Transition moves a contract from one status to another in a single
// conditional UPDATE.  It reports whether a row changed; false means the
// contract was no longer in status from.
func (r *ContractRepo) Transition(ctx context.Context, id uint64, from, to model.ContractStatus) (bool, error) {
	col := "responded_at"
	if to == model.ContractCompleted {
		col = "completed_at"
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE contracts SET status=?, "+col+"=? WHERE id=? AND status=?",
		to, time.Now().UTC(), id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
