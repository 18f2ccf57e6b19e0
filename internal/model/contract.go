package model

import (
	"math"
	"time"
)

// ContractStatus values.  pending is initial; accepted and denied are set
// by the provider; completed follows accepted.  No transition is reversible.
type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractAccepted  ContractStatus = "accepted"
	ContractDenied    ContractStatus = "denied"
	ContractCompleted ContractStatus = "completed"
)

// Contract links a client profile to a service.  ProviderID is not stored
// on the row; repositories join it from the service.
type Contract struct {
	ID          uint64         `db:"id" json:"id"`
	ClientID    uint64         `db:"client_id" json:"id_client"`
	ServiceID   uint64         `db:"service_id" json:"id_service"`
	ProviderID  uint64         `db:"provider_id" json:"id_provider"`
	ServiceName string         `db:"service_name" json:"service_name"`
	Hours       int            `db:"hours" json:"hours"`
	Price       float64        `db:"price" json:"price"`
	Status      ContractStatus `db:"status" json:"status"`
	OfferedAt   time.Time      `db:"offered_at" json:"offered_at"`
	RespondedAt *time.Time     `db:"responded_at" json:"responded_at,omitempty"`
	CompletedAt *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
}

// ContractPrice freezes hourly price times hours, rounded to cents.
func ContractPrice(hourly float64, hours int) float64 {
	return math.Round(hourly*float64(hours)*100) / 100
}
