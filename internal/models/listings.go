package models

import (
	"encoding/json"
	"time"
)

// Service is a photography package offered for sale.
type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Duration    string    `json:"duration"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceRequest is the JSON body for service writes. Features may be sent
// as a list or as a comma-separated string.
type ServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       string          `json:"price"`
	Duration    *string         `json:"duration"`
	Features    json.RawMessage `json:"features"`
}

// Testimonial is a client review.
type Testimonial struct {
	ID          int64     `json:"id"`
	ClientName  string    `json:"client_name"`
	Testimonial string    `json:"testimonial"`
	Rating      int       `json:"rating"`
	ProjectType string    `json:"project_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// TestimonialRequest is the JSON body for testimonial writes.
type TestimonialRequest struct {
	ClientName  string  `json:"client_name"`
	Testimonial string  `json:"testimonial"`
	Rating      *int    `json:"rating"`
	ProjectType *string `json:"project_type"`
}

// Contact is an inquiry submitted through the public contact form.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
