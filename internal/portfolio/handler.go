// Package portfolio serves the portfolio items and ties each item's record
// to the image file it owns.
package portfolio

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/assets"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/middleware"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

var (
	ErrNotFound      = apperr.NotFound("Portfolio item not found")
	ErrImageRequired = apperr.Validation("Image is required")
)

// Store defines the interface for portfolio persistence.
type Store interface {
	ListPortfolio(ctx context.Context, f models.PortfolioFilter) ([]models.PortfolioItem, error)
	GetPortfolio(ctx context.Context, id int64) (*models.PortfolioItem, error)
	CreatePortfolio(ctx context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error)
	UpdatePortfolio(ctx context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error)
	DeletePortfolio(ctx context.Context, id int64) error
}

// FileStore defines the interface for image storage.
type FileStore interface {
	Store(r io.Reader, filename string) (string, error)
	Replace(oldRef string, r io.Reader, filename string, commit func(newRef string) error) (string, error)
	Delete(ref string) error
}

// Handler holds portfolio HTTP handlers.
type Handler struct {
	store     Store
	files     FileStore
	maxUpload int64
	logger    *slog.Logger
}

func NewHandler(store Store, files FileStore, maxUpload int64, logger *slog.Logger) *Handler {
	return &Handler{store: store, files: files, maxUpload: maxUpload, logger: logger}
}

// List returns every item, optionally filtered by ?category= and ?featured=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f models.PortfolioFilter
	q := r.URL.Query()
	if q.Has("category") {
		c := q.Get("category")
		f.Category = &c
	}
	if q.Has("featured") {
		v, err := strconv.ParseBool(q.Get("featured"))
		if err != nil {
			httpx.WriteError(w, r, h.logger, apperr.Validation("featured must be true or false"))
			return
		}
		f.Featured = &v
	}
	items, err := h.store.ListPortfolio(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

// Get returns one item.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.load(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

// Create stores the uploaded image and inserts a record pointing at it. If
// the insert fails the image is removed again.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !httpx.IsMultipart(r) {
		httpx.WriteError(w, r, h.logger, ErrImageRequired)
		return
	}
	if err := httpx.ParseMultipart(w, r, h.maxUpload); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	file, fh, err := httpx.FormFile(r, "image")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if file == nil {
		// A file input submitted with no file arrives as an empty value.
		if _, sent := httpx.FormValue(r, "image"); sent {
			httpx.WriteError(w, r, h.logger, assets.ErrEmptyFile)
			return
		}
		httpx.WriteError(w, r, h.logger, ErrImageRequired)
		return
	}
	defer file.Close()
	if !assets.ValidateType(fh.Filename) {
		httpx.WriteError(w, r, h.logger, assets.ErrBadType)
		return
	}

	item := &models.PortfolioItem{}
	if err := applyForm(r, item); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if item.Title == "" || item.Category == "" {
		httpx.WriteError(w, r, h.logger, apperr.Validation("Title and category are required"))
		return
	}

	ref, err := h.files.Store(file, fh.Filename)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	item.ImageURL = ref
	created, err := h.store.CreatePortfolio(r.Context(), item)
	if err != nil {
		h.discard(ref)
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Info("portfolio item created", middleware.Actor(r.Context()), "id", created.ID, "image", created.ImageURL)
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// Update changes an item's fields and, when a new image is attached,
// swaps the owned file. The old file is only removed once the record
// points at the new one.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	item, err := h.load(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := httpx.ParseForm(w, r, h.maxUpload); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := applyForm(r, item); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	file, fh, err := httpx.FormFile(r, "image")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if file == nil {
		updated, err := h.store.UpdatePortfolio(r.Context(), item)
		if err != nil {
			httpx.WriteError(w, r, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, updated)
		return
	}
	defer file.Close()
	if !assets.ValidateType(fh.Filename) {
		httpx.WriteError(w, r, h.logger, assets.ErrBadType)
		return
	}

	var updated *models.PortfolioItem
	oldRef := item.ImageURL
	_, err = h.files.Replace(oldRef, file, fh.Filename, func(newRef string) error {
		item.ImageURL = newRef
		var err error
		updated, err = h.store.UpdatePortfolio(r.Context(), item)
		return err
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Info("portfolio image replaced", middleware.Actor(r.Context()), "id", updated.ID, "old", oldRef, "new", updated.ImageURL)
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes the record, then the file it owned.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	item, err := h.load(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := h.store.DeletePortfolio(r.Context(), item.ID); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.discard(item.ImageURL)
	h.logger.Info("portfolio item deleted", middleware.Actor(r.Context()), "id", item.ID, "image", item.ImageURL)
	httpx.WriteMessage(w, http.StatusOK, "Portfolio item deleted successfully")
}

func (h *Handler) load(r *http.Request) (*models.PortfolioItem, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrNotFound
	}
	return h.store.GetPortfolio(r.Context(), id)
}

func (h *Handler) discard(ref string) {
	if err := h.files.Delete(ref); err != nil {
		apperr.Log(h.logger, "orphaned portfolio image", err, "ref", ref)
	}
}

// applyForm copies submitted form fields onto item. Title, category and
// order are only taken when non-empty; the rest whenever present.
func applyForm(r *http.Request, item *models.PortfolioItem) error {
	if v, _ := httpx.FormValue(r, "title"); v != "" {
		item.Title = v
	}
	if v, _ := httpx.FormValue(r, "category"); v != "" {
		item.Category = v
	}
	if v, ok := httpx.FormValue(r, "description"); ok {
		item.Description = v
	}
	if v, ok := httpx.FormValue(r, "featured"); ok {
		item.Featured = v == "true"
	}
	if v, _ := httpx.FormValue(r, "order"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Validation("order must be an integer")
		}
		item.Order = n
	}
	return nil
}
