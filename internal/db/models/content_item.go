package models

import "time"

// ContentItem is a piece of delivered content attached to a client.
type ContentItem struct {
	ID               int64     `json:"id"`
	ClientID         int64     `json:"client_id"`
	ContentType      string    `json:"content_type"`
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	InstagramPostURL string    `json:"instagram_post_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
