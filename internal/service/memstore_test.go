package service

import (
	"context"
	"sort"
	"sync"

	"github.com/crucial707/highlow/internal/models"
	"github.com/crucial707/highlow/internal/repo"
)

// memStore is an in-memory UserStore with a unique user_name constraint.
type memStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]models.User

	// skipUniqueOnLookup makes GetByUsername miss, simulating a lost registration race.
	skipUniqueOnLookup bool
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, users: map[int]models.User{}}
}

func (m *memStore) Create(_ context.Context, u models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.UserName == u.UserName {
			return nil, repo.ErrConflict
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return &u, nil
}

func (m *memStore) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) GetByUsername(_ context.Context, userName string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skipUniqueOnLookup {
		return nil, repo.ErrNotFound
	}
	for _, u := range m.users {
		if u.UserName == userName {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memStore) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) Update(_ context.Context, id int, upd models.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	if upd.UserName != nil {
		for _, other := range m.users {
			if other.ID != id && other.UserName == *upd.UserName {
				return repo.ErrConflict
			}
		}
		u.UserName = *upd.UserName
	}
	if upd.Bank != nil {
		u.Bank = *upd.Bank
	}
	m.users[id] = u
	return nil
}

func (m *memStore) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.users, id)
	return nil
}
