package auth

import (
	"log/slog"
	"net/http"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/metrics"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

// Authenticator resolves the account behind a request's bearer token.
type Authenticator interface {
	Authenticate(r *http.Request) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	creds   *Credentials
	tokens  *TokenService
	guard   Authenticator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(creds *Credentials, tokens *TokenService, guard Authenticator, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{creds: creds, tokens: tokens, guard: guard, metrics: m, logger: logger}
}

// Register creates an account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	user, err := h.creds.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Info("account registered", "user_id", user.ID, "username", user.Username)
	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login exchanges a username and password for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, r, h.logger, apperr.Validation("Username and password are required"))
		return
	}
	user, err := h.creds.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if user == nil {
		h.metrics.AuthFailure("bad_credentials")
		httpx.WriteError(w, r, h.logger, ErrInvalidCredential)
		return
	}
	h.respondWithToken(w, r, http.StatusOK, user)
}

// Verify echoes the account behind the presented token.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.guard.Authenticate(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, _, err := h.tokens.Issue(user.ID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, status, models.AuthResponse{Token: token, User: user})
}
