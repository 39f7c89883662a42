package directory

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-memory [Directory] used by tests and the example server.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(u *User) *User {
	out := *u
	out.Courses = append([]string(nil), u.Courses...)
	return &out
}

// FindByID implements [Directory].
func (m *Memory) FindByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

// FindByEmail implements [Directory].
func (m *Memory) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(m.byID[id]), nil
}

// Create implements [Directory].
func (m *Memory) Create(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := normalizeEmail(u.Email)
	if _, exists := m.byEmail[email]; exists {
		return ErrDuplicateEmail
	}

	m.byID[u.ID] = cloneUser(u)
	m.byEmail[email] = u.ID
	return nil
}

// Update implements [Directory]. Email changes re-index the account and
// fail with [ErrDuplicateEmail] when the new address is taken.
func (m *Memory) Update(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[u.ID]
	if !ok {
		return ErrNotFound
	}

	newEmail := normalizeEmail(u.Email)
	oldEmail := normalizeEmail(current.Email)
	if newEmail != oldEmail {
		if _, taken := m.byEmail[newEmail]; taken {
			return ErrDuplicateEmail
		}
		delete(m.byEmail, oldEmail)
		m.byEmail[newEmail] = u.ID
	}

	m.byID[u.ID] = cloneUser(u)
	return nil
}
