package models

import (
	"encoding/json"
	"time"
)

// Content is an editable page section (hero, about, contact ...), keyed by
// its unique section name.
type Content struct {
	ID          int64           `json:"id"`
	Section     string          `json:"section"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Content     string          `json:"content"`
	ImageURL    string          `json:"image_url"`
	ButtonText  string          `json:"button_text"`
	ButtonLink  string          `json:"button_link"`
	SocialLinks json.RawMessage `json:"social_links"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ContentUpdate is the JSON body for PUT/POST /api/content/{section}.
// Absent keys leave the stored value untouched.
type ContentUpdate struct {
	Title       *string         `json:"title"`
	Subtitle    *string         `json:"subtitle"`
	Content     *string         `json:"content"`
	ImageURL    *string         `json:"image_url"`
	ButtonText  *string         `json:"button_text"`
	ButtonLink  *string         `json:"button_link"`
	SocialLinks json.RawMessage `json:"social_links"`
}
