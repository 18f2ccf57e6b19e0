package model

import "time"

// Conversation is unique per (client, provider, service).
type Conversation struct {
	ID          uint64    `db:"id" json:"id_conversation"`
	ClientID    uint64    `db:"client_id" json:"id_client"`
	ProviderID  uint64    `db:"provider_id" json:"id_provider"`
	ServiceID   uint64    `db:"service_id" json:"id_service"`
	ServiceName string    `db:"service_name" json:"service_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Message is immutable once stored.
type Message struct {
	ID             uint64    `db:"id" json:"id"`
	ConversationID uint64    `db:"conversation_id" json:"id_conversation"`
	SenderUserID   uint64    `db:"sender_user_id" json:"id_sender"`
	Content        string    `db:"content" json:"content"`
	SentAt         time.Time `db:"sent_at" json:"sent_at"`
}
