package models

import "time"

// PortfolioItem is a single photograph shown on the site.
type PortfolioItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Featured    bool      `json:"featured"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

// PortfolioFilter narrows a portfolio listing. Nil fields match everything.
type PortfolioFilter struct {
	Category *string
	Featured *bool
}
