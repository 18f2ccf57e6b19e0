package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/services-marketplace/internal/model"
)

// MessageRepo stores chat messages.  Messages are append-only.
type MessageRepo struct{ DB *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create appends a message and returns it as stored.
func (r *MessageRepo) Create(ctx context.Context, conversationID, senderUserID uint64, content string) (model.Message, error) {
	m := model.Message{
		ConversationID: conversationID,
		SenderUserID:   senderUserID,
		Content:        strings.TrimSpace(content),
		SentAt:         time.Now().UTC().Truncate(time.Second),
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, sender_user_id, content, sent_at) VALUES (?,?,?,?)",
		m.ConversationID, m.SenderUserID, m.Content, m.SentAt)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	m.ID = uint64(id)
	return m, nil
}

// ListAfter returns up to limit messages with id greater than afterID in
// ascending id order.  Polling clients pass the last id they have seen.
func (r *MessageRepo) ListAfter(ctx context.Context, conversationID, afterID uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	out := []model.Message{}
	err := r.DB.SelectContext(ctx, &out,
		`SELECT id, conversation_id, sender_user_id, content, sent_at FROM messages
		 WHERE conversation_id=? AND id>? ORDER BY id LIMIT ?`,
		conversationID, afterID, limit)
	return out, err
}
