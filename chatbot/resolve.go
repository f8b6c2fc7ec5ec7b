package chatbot

import (
	"strings"

	"github.com/wpbrigade/admin-chatbot/models"
)

// findByEmail returns a pointer into users for the record with the given
// email (case-insensitive), or nil.
func findByEmail(users []models.User, email string) *models.User {
	key := strings.ToLower(email)
	for i := range users {
		if users[i].Email == key {
			return &users[i]
		}
	}
	return nil
}

// findByNormalizedName matches a token against each record's normalized
// name or email. When two records normalize identically the first in
// collection order wins; the tie-break order is not guaranteed.
func findByNormalizedName(users []models.User, token string) *models.User {
	norm := normalizeKey(token)
	for i := range users {
		if normalizeKey(users[i].Name) == norm || normalizeKey(users[i].Email) == norm {
			return &users[i]
		}
	}
	return nil
}
