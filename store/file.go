package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wpbrigade/admin-chatbot/models"
)

// FileStore persists the collection as a pretty-printed JSON array.
//
// Load never fails on bad content: an absent file is created as an empty
// collection and an unparseable file is reset to one. Resetting discards
// whatever was in the file; that matches the long-standing behavior of
// this tool and is logged so an operator can notice.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

func (f *FileStore) Load(ctx context.Context) ([]models.User, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := f.reset(); err != nil {
			return nil, err
		}
		return []models.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var raw []models.User
	if err := json.Unmarshal(data, &raw); err != nil {
		f.logger.Warn("data file unreadable, resetting to empty collection",
			zap.String("path", f.path),
			zap.Error(err))
		if err := f.reset(); err != nil {
			return nil, err
		}
		return []models.User{}, nil
	}

	users := make([]models.User, 0, len(raw))
	for _, u := range raw {
		users = append(users, u.Normalized())
	}
	return users, nil
}

func (f *FileStore) Save(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}

func (f *FileStore) reset() error {
	if err := os.WriteFile(f.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("failed to reset data file: %w", err)
	}
	return nil
}
