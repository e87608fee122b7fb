// Package auth registers accounts, checks passwords and issues the bearer
// tokens the access guard verifies.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/oops"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/models"
	"github.com/ayush/photo-portfolio/backend/internal/validate"
)

var (
	ErrFieldsRequired    = apperr.Validation("All fields are required")
	ErrInvalidEmail      = apperr.Validation("Invalid email address")
	ErrUsernameTaken     = apperr.Validation("Username already exists")
	ErrEmailTaken        = apperr.Validation("Email already exists")
	ErrInvalidCredential = apperr.New(apperr.ErrUnauthorized, "Invalid credentials")
)

// UserStore is the account persistence the credential store needs. Lookups
// that find nothing return an error matching apperr.ErrNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	ReplaceUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Credentials owns account creation and password checks.
type Credentials struct {
	users  UserStore
	hasher PasswordHasher
	// dummy is checked against when the username is unknown so a miss
	// costs the same as a wrong password.
	dummy string
}

func NewCredentials(users UserStore, hasher PasswordHasher) (*Credentials, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &Credentials{users: users, hasher: hasher, dummy: dummy}, nil
}

// Register creates an admin account. Email is stored lowercased. Username
// and email must both be unused.
func (c *Credentials) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	email, err := checkFields(username, email, password)
	if err != nil {
		return nil, err
	}
	if taken, err := c.exists(ctx, c.users.GetUserByUsername, username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := c.exists(ctx, c.users.GetUserByEmail, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}
	return c.users.CreateUser(ctx, &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	})
}

// Verify returns the account when username and password match, and
// (nil, nil) when they do not. Errors are reserved for storage failures.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*models.User, error) {
	u, err := c.users.GetUserByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		c.hasher.Verify(password, c.dummy)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ok, err := c.hasher.Verify(password, u.Password)
	if err != nil {
		return nil, oops.Code("PASSWORD_CHECK_FAILED").With("user_id", u.ID).Wrap(err)
	}
	if !ok {
		return nil, nil
	}
	return u, nil
}

// Bootstrap replaces any existing accounts that share username or email
// with a fresh admin account. It backs the create-admin command.
func (c *Credentials) Bootstrap(ctx context.Context, username, email, password string) (*models.User, error) {
	email, err := checkFields(username, email, password)
	if err != nil {
		return nil, err
	}
	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}
	return c.users.ReplaceUser(ctx, &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	})
}

func checkFields(username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", ErrFieldsRequired
	}
	if !validate.Email(email) {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}

func (c *Credentials) exists(ctx context.Context, get func(context.Context, string) (*models.User, error), key string) (bool, error) {
	_, err := get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
