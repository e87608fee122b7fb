package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

func newTestCredentials(t *testing.T) (*Credentials, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	creds, err := NewCredentials(users, NewBcryptHasher(bcrypt.MinCost))
	require.NoError(t, err)
	return creds, users
}

func TestRegister(t *testing.T) {
	creds, users := newTestCredentials(t)

	u, err := creds.Register(context.Background(), "ayush", "Ayush@Example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ayush", u.Username)
	assert.Equal(t, "ayush@example.com", u.Email)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NotEqual(t, "s3cret", u.Password)
	assert.Equal(t, 1, users.count())
}

func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"missing username", "", "a@b.com", "pw", ErrFieldsRequired},
		{"missing email", "x", "", "pw", ErrFieldsRequired},
		{"missing password", "x", "a@b.com", "", ErrFieldsRequired},
		{"bad email", "x", "not-an-email", "pw", ErrInvalidEmail},
		{"duplicate username", "ayush", "other@example.com", "pw", ErrUsernameTaken},
		{"duplicate email differing in case", "other", "AYUSH@example.com", "pw", ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, users := newTestCredentials(t)
			_, err := creds.Register(context.Background(), "ayush", "ayush@example.com", "pw")
			require.NoError(t, err)

			_, err = creds.Register(context.Background(), tt.username, tt.email, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 400, apperr.Status(err))
			assert.Equal(t, 1, users.count())
		})
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	creds, users := newTestCredentials(t)
	users.err = errors.New("connection refused")

	_, err := creds.Register(context.Background(), "ayush", "a@b.com", "pw")
	require.Error(t, err)
	assert.Equal(t, 500, apperr.Status(err))
}

func TestVerify(t *testing.T) {
	creds, _ := newTestCredentials(t)
	registered, err := creds.Register(context.Background(), "ayush", "a@b.com", "s3cret")
	require.NoError(t, err)

	u, err := creds.Verify(context.Background(), "ayush", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, registered.ID, u.ID)

	u, err = creds.Verify(context.Background(), "ayush", "wrong")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = creds.Verify(context.Background(), "nobody", "s3cret")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestVerify_StoreFailure(t *testing.T) {
	creds, users := newTestCredentials(t)
	users.err = errors.New("connection refused")

	u, err := creds.Verify(context.Background(), "ayush", "pw")
	assert.Error(t, err)
	assert.Nil(t, u)
}

func TestBootstrap_ReplacesExisting(t *testing.T) {
	creds, users := newTestCredentials(t)
	_, err := creds.Register(context.Background(), "admin", "admin@example.com", "old")
	require.NoError(t, err)

	u, err := creds.Bootstrap(context.Background(), "admin", "Admin@Example.com", "new")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, 1, users.count())

	got, err := creds.Verify(context.Background(), "admin", "new")
	require.NoError(t, err)
	require.NotNil(t, got)
	got, err = creds.Verify(context.Background(), "admin", "old")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBootstrap_ValidatesFields(t *testing.T) {
	creds, _ := newTestCredentials(t)
	_, err := creds.Bootstrap(context.Background(), "admin", "nope", "pw")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
