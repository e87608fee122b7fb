package auth

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]*models.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return nil, ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return nil, ErrEmailTaken
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.users[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsers) ReplaceUser(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			delete(f.users, id)
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	f.users[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
