package store

import (
	"context"

	"github.com/wpbrigade/admin-chatbot/models"
)

// MemoryStore keeps the collection in process memory. Used by tests and
// anywhere the handlers need a store without touching disk.
type MemoryStore struct {
	users []models.User
}

// NewMemoryStore seeds an in-memory store with the given records.
func NewMemoryStore(seed ...models.User) *MemoryStore {
	m := &MemoryStore{}
	for _, u := range seed {
		m.users = append(m.users, u.Normalized())
	}
	return m
}

func (m *MemoryStore) Load(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, users []models.User) error {
	m.users = make([]models.User, len(users))
	copy(m.users, users)
	return nil
}
