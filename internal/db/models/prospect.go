package models

import "time"

// Prospect status values used by the recommendation query.
const (
	ProspectStatusNew       = "new"
	ProspectStatusContacted = "contacted"
)

// InterestHigh marks prospects surfaced first by recommendations.
const InterestHigh = "high"

// Prospect is a potential customer owned by exactly one user.
type Prospect struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Name             string    `json:"name"`
	CompanyName      *string   `json:"company_name"`
	BusinessCategory string    `json:"business_category"`
	ContactEmail     *string   `json:"contact_email"`
	ContactPhone     *string   `json:"contact_phone"`
	InterestLevel    *string   `json:"interest_level"`
	Status           string    `json:"status"`
	NextFollowUpDate *Date     `json:"next_follow_up_date"`
	Notes            *string   `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
