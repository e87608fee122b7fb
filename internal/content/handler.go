// Package content serves the editable page sections (hero, about, ...).
// Public reads go through a cache; admin writes upsert the section and
// invalidate it.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/assets"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/middleware"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

var (
	ErrNotFound       = apperr.NotFound("Content not found")
	ErrBadSection     = apperr.Validation("Invalid section name")
	ErrImageURL       = apperr.Validation("image_url can only be cleared; upload an image to change it")
	ErrBadSocialLinks = apperr.Validation("social_links must be valid JSON")
)

var sectionName = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)

// Store defines the interface for content persistence.
type Store interface {
	GetContent(ctx context.Context, section string) (*models.Content, error)
	UpsertContent(ctx context.Context, c *models.Content) (*models.Content, error)
}

// FileStore defines the interface for image storage.
type FileStore interface {
	Replace(oldRef string, r io.Reader, filename string, commit func(newRef string) error) (string, error)
	Delete(ref string) error
}

// Handler holds content HTTP handlers.
type Handler struct {
	store     Store
	files     FileStore
	cache     Cache
	maxUpload int64
	logger    *slog.Logger
}

// NewHandler builds a Handler. A nil cache disables caching.
func NewHandler(store Store, files FileStore, cache Cache, maxUpload int64, logger *slog.Logger) *Handler {
	if cache == nil {
		cache = noCache{}
	}
	return &Handler{store: store, files: files, cache: cache, maxUpload: maxUpload, logger: logger}
}

// Get returns one section.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if !sectionName.MatchString(section) {
		httpx.WriteError(w, r, h.logger, ErrNotFound)
		return
	}
	ctx := r.Context()

	cached, gen, cacheErr := h.cache.Get(ctx, section)
	if cacheErr != nil {
		h.logger.Warn("content cache read failed", "section", section, "error", cacheErr)
	} else if cached != nil {
		httpx.WriteJSON(w, http.StatusOK, cached)
		return
	}

	c, err := h.store.GetContent(ctx, section)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if cacheErr == nil {
		if err := h.cache.Set(ctx, c, gen); err != nil {
			h.logger.Warn("content cache write failed", "section", section, "error", err)
		}
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// Upsert creates or updates a section from a JSON body or a form with an
// optional image upload.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if !sectionName.MatchString(section) {
		httpx.WriteError(w, r, h.logger, ErrBadSection)
		return
	}
	current, err := h.current(r.Context(), section)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	var saved *models.Content
	if httpx.IsJSON(r) {
		saved, err = h.upsertJSON(w, r, current)
	} else {
		saved, err = h.upsertForm(w, r, current)
	}
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := h.cache.Invalidate(r.Context(), section); err != nil {
		h.logger.Warn("content cache invalidate failed", "section", section, "error", err)
	}
	h.logger.Info("content section saved", middleware.Actor(r.Context()), "section", section, "image", saved.ImageURL)
	httpx.WriteJSON(w, http.StatusOK, saved)
}

// current loads the section, or a blank one when it does not exist yet.
func (h *Handler) current(ctx context.Context, section string) (*models.Content, error) {
	c, err := h.store.GetContent(ctx, section)
	if errors.Is(err, apperr.ErrNotFound) {
		return &models.Content{Section: section, SocialLinks: json.RawMessage("{}")}, nil
	}
	return c, err
}

func (h *Handler) upsertJSON(w http.ResponseWriter, r *http.Request, c *models.Content) (*models.Content, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	var req models.ContentUpdate
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	setString(&c.Title, req.Title)
	setString(&c.Subtitle, req.Subtitle)
	setString(&c.Content, req.Content)
	setString(&c.ButtonText, req.ButtonText)
	setString(&c.ButtonLink, req.ButtonLink)

	oldImage := c.ImageURL
	if req.ImageURL != nil {
		switch *req.ImageURL {
		case "":
			c.ImageURL = ""
		case oldImage:
		default:
			return nil, ErrImageURL
		}
	}
	if req.SocialLinks != nil {
		links, err := compactLinks(req.SocialLinks)
		if err != nil {
			return nil, err
		}
		c.SocialLinks = links
	}

	saved, err := h.store.UpsertContent(r.Context(), c)
	if err != nil {
		return nil, err
	}
	if oldImage != "" && saved.ImageURL == "" {
		h.discard(oldImage)
	}
	return saved, nil
}

func (h *Handler) upsertForm(w http.ResponseWriter, r *http.Request, c *models.Content) (*models.Content, error) {
	if err := httpx.ParseForm(w, r, h.maxUpload); err != nil {
		return nil, err
	}
	for key, field := range map[string]*string{
		"title":       &c.Title,
		"subtitle":    &c.Subtitle,
		"content":     &c.Content,
		"button_text": &c.ButtonText,
		"button_link": &c.ButtonLink,
	} {
		if v, _ := httpx.FormValue(r, key); v != "" {
			*field = v
		}
	}
	if v, _ := httpx.FormValue(r, "social_links"); v != "" {
		links, err := compactLinks(json.RawMessage(v))
		if err != nil {
			return nil, err
		}
		c.SocialLinks = links
	}

	file, fh, err := httpx.FormFile(r, "image")
	if err != nil {
		return nil, err
	}
	if file == nil {
		return h.store.UpsertContent(r.Context(), c)
	}
	defer file.Close()
	if !assets.ValidateType(fh.Filename) {
		return nil, assets.ErrBadType
	}

	var saved *models.Content
	_, err = h.files.Replace(c.ImageURL, file, fh.Filename, func(newRef string) error {
		c.ImageURL = newRef
		var err error
		saved, err = h.store.UpsertContent(r.Context(), c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (h *Handler) discard(ref string) {
	if err := h.files.Delete(ref); err != nil {
		apperr.Log(h.logger, "orphaned content image", err, "ref", ref)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// compactLinks validates raw JSON and returns it compacted. JSON null
// resets the links to an empty object.
func compactLinks(raw json.RawMessage) (json.RawMessage, error) {
	if string(bytes.TrimSpace(raw)) == "null" {
		return json.RawMessage("{}"), nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, ErrBadSocialLinks
	}
	return json.RawMessage(buf.Bytes()), nil
}
