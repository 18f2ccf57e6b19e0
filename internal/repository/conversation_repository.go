package repository // repository for conversation persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

const conversationSelect = `SELECT v.id, v.client_id, v.provider_id, v.service_id, s.name AS service_name, v.created_at
	FROM conversations v
	JOIN services s ON s.id = v.service_id`

type ConversationRepo struct{ DB *sqlx.DB }

func NewConversationRepo(db *sqlx.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

// FindOrCreate returns the conversation for the triple, creating it when
// absent.  created is true only for the call that inserted the row.  A
// concurrent insert that loses on the unique key falls back to the
// existing row, so every caller sees the same id.
func (r *ConversationRepo) FindOrCreate(ctx context.Context, clientID, providerID, serviceID uint64) (model.Conversation, bool, error) {
	c, err := r.find(ctx, clientID, providerID, serviceID)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, false, err
	}

	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO conversations (client_id, provider_id, service_id, created_at) VALUES (?,?,?,?)",
		clientID, providerID, serviceID, time.Now().UTC())
	created := true
	if err != nil {
		if !isDuplicate(err) {
			return model.Conversation{}, false, err
		}
		created = false
	}
	c, err = r.find(ctx, clientID, providerID, serviceID)
	if err != nil {
		return model.Conversation{}, false, err
	}
	return c, created, nil
}

func (r *ConversationRepo) find(ctx context.Context, clientID, providerID, serviceID uint64) (model.Conversation, error) {
	var c model.Conversation
	err := r.DB.GetContext(ctx, &c,
		conversationSelect+" WHERE v.client_id=? AND v.provider_id=? AND v.service_id=? LIMIT 1",
		clientID, providerID, serviceID)
	return c, err
}

func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (model.Conversation, error) {
	var c model.Conversation
	err := r.DB.GetContext(ctx, &c, conversationSelect+" WHERE v.id=? LIMIT 1", id)
	return c, err
}

func (r *ConversationRepo) ListForClient(ctx context.Context, clientID uint64) ([]model.Conversation, error) {
	out := []model.Conversation{}
	err := r.DB.SelectContext(ctx, &out, conversationSelect+" WHERE v.client_id=? ORDER BY v.id DESC", clientID)
	return out, err
}

func (r *ConversationRepo) ListForProvider(ctx context.Context, providerID uint64) ([]model.Conversation, error) {
	out := []model.Conversation{}
	err := r.DB.SelectContext(ctx, &out, conversationSelect+" WHERE v.provider_id=? ORDER BY v.id DESC", providerID)
	return out, err
}
