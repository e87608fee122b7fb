package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ayush/photo-portfolio/backend/internal/auth"
	"github.com/ayush/photo-portfolio/backend/internal/models"
	"github.com/ayush/photo-portfolio/backend/internal/store"
)

// memDB stands in for the Postgres store in router scenarios.
type memDB struct {
	mu           sync.Mutex
	nextID       int64
	down         bool
	users        map[int64]models.User
	portfolio    map[int64]models.PortfolioItem
	content      map[string]models.Content
	services     map[int64]models.Service
	testimonials map[int64]models.Testimonial
	contacts     map[int64]models.Contact
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[int64]models.User{},
		portfolio:    map[int64]models.PortfolioItem{},
		content:      map[string]models.Content{},
		services:     map[int64]models.Service{},
		testimonials: map[int64]models.Testimonial{},
		contacts:     map[int64]models.Contact{},
	}
}

func (m *memDB) id() int64 { m.nextID++; return m.nextID }

func (m *memDB) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return errors.New("connection refused")
	}
	return nil
}

// Users

func (m *memDB) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Username == u.Username {
			return nil, store.ErrUsernameTaken
		}
		if e.Email == u.Email {
			return nil, store.ErrEmailTaken
		}
	}
	cp := *u
	cp.ID = m.id()
	cp.CreatedAt = time.Now()
	m.users[cp.ID] = cp
	return &cp, nil
}

func (m *memDB) ReplaceUser(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	for id, e := range m.users {
		if e.Username == u.Username || e.Email == u.Email {
			delete(m.users, id)
		}
	}
	m.mu.Unlock()
	return m.CreateUser(ctx, u)
}

func (m *memDB) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memDB) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Username == username })
}

func (m *memDB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *memDB) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.ID == id })
}

func (m *memDB) deleteUser(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// Portfolio

func (m *memDB) ListPortfolio(_ context.Context, f models.PortfolioFilter) ([]models.PortfolioItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PortfolioItem{}
	for _, p := range m.portfolio {
		if (f.Category == nil || p.Category == *f.Category) && (f.Featured == nil || p.Featured == *f.Featured) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order > out[j].Order })
	return out, nil
}

func (m *memDB) GetPortfolio(_ context.Context, id int64) (*models.PortfolioItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.portfolio[id]
	if !ok {
		return nil, store.ErrPortfolioNotFound
	}
	return &p, nil
}

func (m *memDB) CreatePortfolio(_ context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.ID = m.id()
	m.portfolio[cp.ID] = cp
	return &cp, nil
}

func (m *memDB) UpdatePortfolio(_ context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.portfolio[p.ID]; !ok {
		return nil, store.ErrPortfolioNotFound
	}
	m.portfolio[p.ID] = *p
	cp := *p
	return &cp, nil
}

func (m *memDB) DeletePortfolio(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.portfolio[id]; !ok {
		return store.ErrPortfolioNotFound
	}
	delete(m.portfolio, id)
	return nil
}

// Content

func (m *memDB) GetContent(_ context.Context, section string) (*models.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.content[section]
	if !ok {
		return nil, store.ErrContentNotFound
	}
	return &c, nil
}

func (m *memDB) UpsertContent(_ context.Context, c *models.Content) (*models.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	if cp.ID == 0 {
		cp.ID = m.id()
	}
	m.content[cp.Section] = cp
	return &cp, nil
}

// Services

func (m *memDB) ListServices(context.Context) ([]models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Service{}
	for _, s := range m.services {
		out = append(out, s)
	}
	return out, nil
}

func (m *memDB) GetService(_ context.Context, id int64) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return nil, store.ErrServiceNotFound
	}
	return &s, nil
}

func (m *memDB) CreateService(_ context.Context, s *models.Service) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.ID = m.id()
	m.services[cp.ID] = cp
	return &cp, nil
}

func (m *memDB) UpdateService(_ context.Context, s *models.Service) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services[s.ID] = *s
	return s, nil
}

func (m *memDB) DeleteService(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[id]; !ok {
		return store.ErrServiceNotFound
	}
	delete(m.services, id)
	return nil
}

// Testimonials

func (m *memDB) ListTestimonials(context.Context) ([]models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Testimonial{}
	for _, t := range m.testimonials {
		out = append(out, t)
	}
	return out, nil
}

func (m *memDB) GetTestimonial(_ context.Context, id int64) (*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.testimonials[id]
	if !ok {
		return nil, store.ErrTestimonialNotFound
	}
	return &t, nil
}

func (m *memDB) CreateTestimonial(_ context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.ID = m.id()
	m.testimonials[cp.ID] = cp
	return &cp, nil
}

func (m *memDB) UpdateTestimonial(_ context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.testimonials[t.ID] = *t
	return t, nil
}

func (m *memDB) DeleteTestimonial(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.testimonials[id]; !ok {
		return store.ErrTestimonialNotFound
	}
	delete(m.testimonials, id)
	return nil
}

// Contacts

func (m *memDB) ListContacts(context.Context) ([]models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Contact{}
	for _, c := range m.contacts {
		out = append(out, c)
	}
	return out, nil
}

func (m *memDB) CreateContact(_ context.Context, c *models.Contact) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.ID = m.id()
	m.contacts[cp.ID] = cp
	return &cp, nil
}

func (m *memDB) DeleteContact(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contacts[id]; !ok {
		return store.ErrContactNotFound
	}
	delete(m.contacts, id)
	return nil
}

var _ auth.UserStore = (*memDB)(nil)
