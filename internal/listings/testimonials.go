package listings

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

const defaultRating = 5

var (
	ErrTestimonialNotFound = apperr.NotFound("Testimonial not found")
	ErrRating              = apperr.Validation("Rating must be between 1 and 5")
)

// TestimonialStore defines the interface for testimonial persistence.
type TestimonialStore interface {
	ListTestimonials(ctx context.Context) ([]models.Testimonial, error)
	GetTestimonial(ctx context.Context, id int64) (*models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error)
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id int64) error
}

type TestimonialHandler struct {
	store  TestimonialStore
	logger *slog.Logger
}

func NewTestimonialHandler(store TestimonialStore, logger *slog.Logger) *TestimonialHandler {
	return &TestimonialHandler{store: store, logger: logger}
}

func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListTestimonials(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TestimonialRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if req.ClientName == "" || req.Testimonial == "" {
		httpx.WriteError(w, r, h.logger, apperr.Validation("Client name and testimonial are required"))
		return
	}
	t := &models.Testimonial{ClientName: req.ClientName, Testimonial: req.Testimonial, Rating: defaultRating}
	if req.Rating != nil {
		t.Rating = *req.Rating
	}
	if req.ProjectType != nil {
		t.ProjectType = *req.ProjectType
	}
	if t.Rating < 1 || t.Rating > 5 {
		httpx.WriteError(w, r, h.logger, ErrRating)
		return
	}
	created, err := h.store.CreateTestimonial(r.Context(), t)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.WriteError(w, r, h.logger, ErrTestimonialNotFound)
		return
	}
	t, err := h.store.GetTestimonial(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	var req models.TestimonialRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if req.ClientName != "" {
		t.ClientName = req.ClientName
	}
	if req.Testimonial != "" {
		t.Testimonial = req.Testimonial
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			httpx.WriteError(w, r, h.logger, ErrRating)
			return
		}
		t.Rating = *req.Rating
	}
	if req.ProjectType != nil {
		t.ProjectType = *req.ProjectType
	}
	updated, err := h.store.UpdateTestimonial(r.Context(), t)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.WriteError(w, r, h.logger, ErrTestimonialNotFound)
		return
	}
	if err := h.store.DeleteTestimonial(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Testimonial deleted successfully")
}
