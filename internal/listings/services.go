package listings

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

var ErrServiceNotFound = apperr.NotFound("Service not found")

// ServiceStore defines the interface for service persistence.
type ServiceStore interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) (*models.Service, error)
	UpdateService(ctx context.Context, s *models.Service) (*models.Service, error)
	DeleteService(ctx context.Context, id int64) error
}

type ServiceHandler struct {
	store  ServiceStore
	logger *slog.Logger
}

func NewServiceHandler(store ServiceStore, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{store: store, logger: logger}
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListServices(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ServiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if req.Name == "" || req.Description == "" || req.Price == "" {
		httpx.WriteError(w, r, h.logger, apperr.Validation("Name, description and price are required"))
		return
	}
	features, err := parseFeatures(req.Features)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	s := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Features:    features,
	}
	if req.Duration != nil {
		s.Duration = *req.Duration
	}
	created, err := h.store.CreateService(r.Context(), s)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// Update overwrites name, description, price and features when non-empty
// and duration whenever it is sent.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.WriteError(w, r, h.logger, ErrServiceNotFound)
		return
	}
	s, err := h.store.GetService(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	var req models.ServiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if req.Name != "" {
		s.Name = req.Name
	}
	if req.Description != "" {
		s.Description = req.Description
	}
	if req.Price != "" {
		s.Price = req.Price
	}
	if req.Duration != nil {
		s.Duration = *req.Duration
	}
	features, err := parseFeatures(req.Features)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if len(features) > 0 {
		s.Features = features
	}
	updated, err := h.store.UpdateService(r.Context(), s)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.WriteError(w, r, h.logger, ErrServiceNotFound)
		return
	}
	if err := h.store.DeleteService(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Service deleted successfully")
}

// parseFeatures accepts a JSON list of strings or one comma-separated
// string. Entries are trimmed; empty entries and commas inside list items
// are dropped since the list is stored comma-joined.
func parseFeatures(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return nil, apperr.Validation("features must be a list or a comma-separated string")
		}
		list = strings.Split(joined, ",")
	}
	out := []string{}
	for _, f := range list {
		for _, part := range strings.Split(f, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, nil
}
