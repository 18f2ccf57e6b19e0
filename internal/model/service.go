package model

import "time"

type Category struct {
	ID   uint64 `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Service is an hourly offering owned by exactly one provider profile.
// Deleting a service only sets IsHidden so contracts and conversations keep
// their reference.
type Service struct {
	ID              uint64    `db:"id" json:"id"`
	ProviderID      uint64    `db:"provider_id" json:"id_provider"`
	CategoryID      uint64    `db:"category_id" json:"id_category"`
	CategoryName    string    `db:"category_name" json:"category"`
	ProviderName    string    `db:"provider_name" json:"provider_name"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	HourlyPrice     float64   `db:"hourly_price" json:"hourly_price"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	IsHidden        bool      `db:"is_hidden" json:"is_hidden"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ServiceFilter narrows public service listings.
type ServiceFilter struct {
	CategoryID uint64
	Query      string
	Limit      int
	Offset     int
}

type Favorite struct {
	ID        uint64    `db:"id" json:"id"`
	ClientID  uint64    `db:"client_id" json:"id_client"`
	ServiceID uint64    `db:"service_id" json:"id_service"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Review struct {
	ID         uint64    `db:"id" json:"id"`
	ServiceID  uint64    `db:"service_id" json:"id_service"`
	ClientID   uint64    `db:"client_id" json:"id_client"`
	ClientName string    `db:"client_name" json:"client_name"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
