package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

var ErrContentNotFound = apperr.NotFound("Content not found")

const contentColumns = `id, section, title, subtitle, content, image_url, button_text, button_link, social_links, updated_at`

func scanContent(row pgx.Row) (*models.Content, error) {
	var (
		c     models.Content
		links string
	)
	err := row.Scan(&c.ID, &c.Section, &c.Title, &c.Subtitle, &c.Content, &c.ImageURL,
		&c.ButtonText, &c.ButtonLink, &links, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.SocialLinks = socialLinks(links)
	return &c, nil
}

// socialLinks returns stored JSON text as a raw message, "{}" when the
// column is empty or not valid JSON.
func socialLinks(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(s)
}

func (s *PostgresStore) GetContent(ctx context.Context, section string) (*models.Content, error) {
	c, err := scanContent(s.db.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content WHERE section = $1`, section,
	))
	if err != nil {
		return nil, readErr("CONTENT_GET_FAILED", err, ErrContentNotFound, "section", section)
	}
	return c, nil
}

// UpsertContent writes every field of c under c.Section, creating the
// section when it does not exist yet.
func (s *PostgresStore) UpsertContent(ctx context.Context, c *models.Content) (*models.Content, error) {
	links := string(socialLinks(string(c.SocialLinks)))
	saved, err := scanContent(s.db.QueryRow(ctx,
		`INSERT INTO content (section, title, subtitle, content, image_url, button_text, button_link, social_links)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (section) DO UPDATE SET
		     title = EXCLUDED.title,
		     subtitle = EXCLUDED.subtitle,
		     content = EXCLUDED.content,
		     image_url = EXCLUDED.image_url,
		     button_text = EXCLUDED.button_text,
		     button_link = EXCLUDED.button_link,
		     social_links = EXCLUDED.social_links,
		     updated_at = NOW()
		 RETURNING `+contentColumns,
		c.Section, c.Title, c.Subtitle, c.Content, c.ImageURL, c.ButtonText, c.ButtonLink, links,
	))
	if err != nil {
		return nil, writeErr("CONTENT_UPSERT_FAILED", err, "section", c.Section)
	}
	return saved, nil
}
