package listings

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/models"
	"github.com/ayush/photo-portfolio/backend/internal/validate"
)

var ErrContactNotFound = apperr.NotFound("Contact message not found")

// ContactStore defines the interface for contact persistence.
type ContactStore interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
	CreateContact(ctx context.Context, c *models.Contact) (*models.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

type ContactHandler struct {
	store  ContactStore
	logger *slog.Logger
}

func NewContactHandler(store ContactStore, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{store: store, logger: logger}
}

// List returns every inquiry, newest first. Admin only.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListContacts(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Create records a public inquiry.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Contact
	if err := httpx.DecodeJSON(r, &c); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if !validate.Email(c.Email) {
		httpx.WriteError(w, r, h.logger, apperr.Validation("Invalid email address"))
		return
	}
	if c.Name == "" || c.Message == "" {
		httpx.WriteError(w, r, h.logger, apperr.Validation("Name and message are required"))
		return
	}
	created, err := h.store.CreateContact(r.Context(), &models.Contact{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Message: c.Message,
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Info("contact message received", "id", created.ID)
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.WriteError(w, r, h.logger, ErrContactNotFound)
		return
	}
	if err := h.store.DeleteContact(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Contact message deleted successfully")
}
