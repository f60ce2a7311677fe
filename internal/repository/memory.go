package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rollcall/rollcall/internal/model"
)

// Memory is an in-process Store. Records live as long as the process.
type Memory struct {
	mu    sync.RWMutex
	users []model.User
	now   func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// CreateUser implements Store.
func (m *Memory) CreateUser(ctx context.Context, u *model.User) error {
	if err := validateUser(u); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "create user", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u.Stamp(m.now())
	u.ID = newID(u.CreatedAt)
	m.users = append(m.users, *u)
	return nil
}

// ListUsers implements Store.
func (m *Memory) ListUsers(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, &PersistenceError{Op: "list users", Err: err}
	}

	m.mu.RLock()
	users := make([]*model.User, len(m.users))
	for i := range m.users {
		u := m.users[i]
		users[i] = &u
	}
	m.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		return users[i].Newer(users[j])
	})
	return users, nil
}

// Ping implements Store.
func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements Store.
func (m *Memory) Close(context.Context) error {
	return nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
