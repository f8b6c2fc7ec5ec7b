package store

import (
	"context"

	"github.com/wpbrigade/admin-chatbot/models"
)

// Store is the durable record collection behind the command handlers.
// Every mutating command does a full Load, computes, and on success does a
// full Save; the backing store is the sole source of truth and is never
// cached between calls. Last writer wins.
type Store interface {
	// Load returns the normalized record collection. Implementations
	// backed by local files self-heal unreadable state by resetting to an
	// empty collection; only infrastructure failures surface as errors.
	Load(ctx context.Context) ([]models.User, error)

	// Save overwrites the whole collection.
	Save(ctx context.Context, users []models.User) error
}
