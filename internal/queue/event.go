// Package queue carries marketplace domain events over RabbitMQ.
package queue

import (
	"encoding/json"
	"time"
)

// QueueName is the durable queue every event is published to.
const QueueName = "marketplace.events"

// Event types.
const (
	UserRegistered         = "user.registered"
	PasswordResetRequested = "password.reset_requested"
	ContractOffered        = "contract.offered"
	ContractResponded      = "contract.responded"
	ContractCompleted      = "contract.completed"
	MessageSent            = "message.sent"
)

// Event is the envelope written to the queue.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent wraps payload in an envelope stamped with the current time.
func NewEvent(typ string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: typ, OccurredAt: time.Now().UTC(), Payload: raw}, nil
}

type UserRegisteredPayload struct {
	UserID uint64   `json:"user_id"`
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Roles  []string `json:"roles"`
}

// PasswordResetPayload carries the raw token for the mailer.  It is the
// only place the raw token leaves the process.
type PasswordResetPayload struct {
	UserID    uint64    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ContractPayload struct {
	ContractID uint64  `json:"contract_id"`
	ClientID   uint64  `json:"client_id"`
	ProviderID uint64  `json:"provider_id"`
	ServiceID  uint64  `json:"service_id"`
	Hours      int     `json:"hours"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
}

type MessagePayload struct {
	ConversationID uint64 `json:"conversation_id"`
	MessageID      uint64 `json:"message_id"`
	SenderUserID   uint64 `json:"sender_user_id"`
}
