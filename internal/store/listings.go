package store

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

var (
	ErrServiceNotFound     = apperr.NotFound("Service not found")
	ErrTestimonialNotFound = apperr.NotFound("Testimonial not found")
	ErrContactNotFound     = apperr.NotFound("Contact message not found")
)

// listRows collects every row of rows with scan.
func listRows[T any](rows pgx.Rows, code string, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, dbErr(code, err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(code, err)
	}
	return out, nil
}

// Services

const serviceColumns = `id, name, description, price, duration, features, created_at`

func scanService(row pgx.Row) (*models.Service, error) {
	var (
		sv       models.Service
		features string
	)
	if err := row.Scan(&sv.ID, &sv.Name, &sv.Description, &sv.Price, &sv.Duration, &features, &sv.CreatedAt); err != nil {
		return nil, err
	}
	sv.Features = splitFeatures(features)
	return &sv, nil
}

// splitFeatures turns the stored comma-joined list into a slice. An empty
// column is an empty list.
func splitFeatures(s string) []string {
	out := []string{}
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (s *PostgresStore) ListServices(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY created_at DESC`)
	if err != nil {
		return nil, dbErr("SERVICE_LIST_FAILED", err)
	}
	return listRows(rows, "SERVICE_LIST_FAILED", scanService)
}

func (s *PostgresStore) GetService(ctx context.Context, id int64) (*models.Service, error) {
	sv, err := scanService(s.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		return nil, readErr("SERVICE_GET_FAILED", err, ErrServiceNotFound, "id", id)
	}
	return sv, nil
}

func (s *PostgresStore) CreateService(ctx context.Context, sv *models.Service) (*models.Service, error) {
	created, err := scanService(s.db.QueryRow(ctx,
		`INSERT INTO services (name, description, price, duration, features)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+serviceColumns,
		sv.Name, sv.Description, sv.Price, sv.Duration, strings.Join(sv.Features, ","),
	))
	if err != nil {
		return nil, writeErr("SERVICE_CREATE_FAILED", err, "name", sv.Name)
	}
	return created, nil
}

func (s *PostgresStore) UpdateService(ctx context.Context, sv *models.Service) (*models.Service, error) {
	updated, err := scanService(s.db.QueryRow(ctx,
		`UPDATE services SET name = $2, description = $3, price = $4, duration = $5, features = $6
		 WHERE id = $1
		 RETURNING `+serviceColumns,
		sv.ID, sv.Name, sv.Description, sv.Price, sv.Duration, strings.Join(sv.Features, ","),
	))
	if err != nil {
		return nil, updateErr("SERVICE_UPDATE_FAILED", err, ErrServiceNotFound, "id", sv.ID)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteService(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "services", id, ErrServiceNotFound)
}

// Testimonials

const testimonialColumns = `id, client_name, testimonial, rating, project_type, created_at`

func scanTestimonial(row pgx.Row) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := row.Scan(&t.ID, &t.ClientName, &t.Testimonial, &t.Rating, &t.ProjectType, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	rows, err := s.db.Query(ctx, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC`)
	if err != nil {
		return nil, dbErr("TESTIMONIAL_LIST_FAILED", err)
	}
	return listRows(rows, "TESTIMONIAL_LIST_FAILED", scanTestimonial)
}

func (s *PostgresStore) GetTestimonial(ctx context.Context, id int64) (*models.Testimonial, error) {
	t, err := scanTestimonial(s.db.QueryRow(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id))
	if err != nil {
		return nil, readErr("TESTIMONIAL_GET_FAILED", err, ErrTestimonialNotFound, "id", id)
	}
	return t, nil
}

func (s *PostgresStore) CreateTestimonial(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	created, err := scanTestimonial(s.db.QueryRow(ctx,
		`INSERT INTO testimonials (client_name, testimonial, rating, project_type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+testimonialColumns,
		t.ClientName, t.Testimonial, t.Rating, t.ProjectType,
	))
	if err != nil {
		return nil, writeErr("TESTIMONIAL_CREATE_FAILED", err, "client_name", t.ClientName)
	}
	return created, nil
}

func (s *PostgresStore) UpdateTestimonial(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	updated, err := scanTestimonial(s.db.QueryRow(ctx,
		`UPDATE testimonials SET client_name = $2, testimonial = $3, rating = $4, project_type = $5
		 WHERE id = $1
		 RETURNING `+testimonialColumns,
		t.ID, t.ClientName, t.Testimonial, t.Rating, t.ProjectType,
	))
	if err != nil {
		return nil, updateErr("TESTIMONIAL_UPDATE_FAILED", err, ErrTestimonialNotFound, "id", t.ID)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteTestimonial(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "testimonials", id, ErrTestimonialNotFound)
}

// Contacts

const contactColumns = `id, name, email, phone, message, created_at`

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) ListContacts(ctx context.Context) ([]models.Contact, error) {
	rows, err := s.db.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, dbErr("CONTACT_LIST_FAILED", err)
	}
	return listRows(rows, "CONTACT_LIST_FAILED", scanContact)
}

func (s *PostgresStore) CreateContact(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	created, err := scanContact(s.db.QueryRow(ctx,
		`INSERT INTO contacts (name, email, phone, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+contactColumns,
		c.Name, c.Email, c.Phone, c.Message,
	))
	if err != nil {
		return nil, writeErr("CONTACT_CREATE_FAILED", err, "email", c.Email)
	}
	return created, nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "contacts", id, ErrContactNotFound)
}
