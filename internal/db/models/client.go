package models

import "time"

// Client is a signed customer record owned by exactly one user.
type Client struct {
	ID                      int64     `json:"id"`
	UserID                  int64     `json:"user_id"`
	Name                    string    `json:"name"`
	CompanyName             *string   `json:"company_name"`
	BusinessCategory        string    `json:"business_category"`
	ContactEmail            *string   `json:"contact_email"`
	ContactPhone            *string   `json:"contact_phone"`
	Status                  *string   `json:"status"`
	SignedDate              *Date     `json:"signed_date"`
	EstimatedMonthlyRevenue *float64  `json:"estimated_monthly_revenue"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
