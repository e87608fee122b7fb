// Package middleware holds the access guard that protects admin routes.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/auth"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/metrics"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

var (
	ErrMissingToken   = apperr.New(apperr.ErrUnauthorized, "No authentication token, access denied")
	ErrMalformedToken = apperr.New(apperr.ErrUnauthorized, "Token is invalid")
	ErrInvalidToken   = apperr.New(apperr.ErrUnauthorized, "Token is not valid or has expired")
	ErrUnknownAccount = apperr.New(apperr.ErrUnauthorized, "User not found")
	ErrAdminOnly      = apperr.New(apperr.ErrForbidden, "Access denied. Admin only.")
)

// TokenVerifier checks a bearer token and returns the account id in it.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// AccountLookup loads an account by id. A missing account is an error
// matching apperr.ErrNotFound.
type AccountLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type ctxKey struct{}

// Guard authenticates requests from their Authorization header.
type Guard struct {
	tokens   TokenVerifier
	accounts AccountLookup
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewGuard(tokens TokenVerifier, accounts AccountLookup, m *metrics.Metrics, logger *slog.Logger) *Guard {
	return &Guard{tokens: tokens, accounts: accounts, metrics: m, logger: logger}
}

// Authenticate resolves the account behind "Authorization: Bearer <token>".
// The account is re-read on every call so deleted accounts and role changes
// take effect immediately.
func (g *Guard) Authenticate(r *http.Request) (*models.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		g.metrics.AuthFailure("missing_token")
		return nil, ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		g.metrics.AuthFailure("malformed_header")
		return nil, ErrMalformedToken
	}

	id, err := g.tokens.Verify(token)
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, auth.ErrTokenExpired) {
			reason = "expired_token"
		}
		g.metrics.AuthFailure(reason)
		return nil, oops.Code("AUTH_TOKEN_REJECTED").With("reason", reason).Wrap(errors.Join(ErrInvalidToken, err))
	}

	user, err := g.accounts.GetUserByID(r.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		g.metrics.AuthFailure("unknown_account")
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckRole returns user when it holds role and ErrAdminOnly otherwise.
func CheckRole(user *models.User, role string) (*models.User, error) {
	if user == nil || user.Role != role {
		return nil, ErrAdminOnly
	}
	return user, nil
}

// RequireRole authenticates the request, checks the account's role and
// attaches the account to the request context.
func (g *Guard) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := g.Authenticate(r)
			if err == nil {
				user, err = CheckRole(user, role)
				if err != nil {
					g.metrics.AuthFailure("forbidden")
				}
			}
			if err != nil {
				httpx.WriteError(w, r, g.logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser attaches user to ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// Actor is a log attribute naming the account behind ctx.
func Actor(ctx context.Context) slog.Attr {
	if user, ok := UserFromContext(ctx); ok {
		return slog.String("actor", user.Username)
	}
	return slog.String("actor", "anonymous")
}

// UserFromContext returns the account attached by RequireRole.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*models.User)
	return user, ok && user != nil
}
