package chatbot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wpbrigade/admin-chatbot/models"
	"github.com/wpbrigade/admin-chatbot/store"
)

// Bot wires the classifier, extractors and resolver to a record store.
// Every handler reloads the full collection, applies the command and, on
// success only, writes the full collection back. Failed extractions and
// unmatched identifiers come back as plain messages; only store failures
// are returned as errors.
type Bot struct {
	store  store.Store
	logger *zap.Logger
}

// New creates a Bot over the given store. A nil logger disables logging.
func New(s store.Store, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{store: s, logger: logger}
}

// Respond classifies the command and dispatches it to the matching
// handler, the single entry point the boundary layer needs.
func (b *Bot) Respond(ctx context.Context, text string) (string, error) {
	cmd := strings.TrimSpace(text)
	if cmd == "" {
		return "Please enter a command.", nil
	}

	intent := Classify(cmd)
	b.logger.Debug("classified command", zap.String("intent", string(intent)))

	switch intent {
	case IntentAddUser:
		return b.HandleAdd(ctx, cmd)
	case IntentDeleteUser:
		return b.HandleDelete(ctx, cmd)
	case IntentUpdateUser:
		return b.HandleUpdate(ctx, cmd)
	default:
		return "I'm sorry, I don't understand that command. Try: add, remove, or update.", nil
	}
}

// ListUsers is a read-only passthrough to the store.
func (b *Bot) ListUsers(ctx context.Context) ([]models.User, error) {
	return b.store.Load(ctx)
}

// HandleAdd creates a record. An email is required; the display name is
// the quoted name when present, else the unquoted text before the email,
// else a name derived from the email's local part.
func (b *Bot) HandleAdd(ctx context.Context, command string) (string, error) {
	users, err := b.store.Load(ctx)
	if err != nil {
		return "", err
	}

	email, ok := ExtractEmail(command)
	if !ok {
		return "I couldn't find a valid email address in your request. Please provide an email like john@example.com.", nil
	}
	phone := ExtractPhone(command)

	name, ok := ExtractQuotedName(command)
	if !ok {
		name, ok = nameBeforeEmail(command, email)
	}
	if !ok {
		name = NameFromEmail(email)
	}

	if findByEmail(users, email) != nil {
		return fmt.Sprintf("User with email **%s** already exists.", email), nil
	}

	users = append(users, models.User{
		Name:  name,
		Email: email,
		Phone: phone,
		City:  models.NotAvailable,
	})
	if err := b.store.Save(ctx, users); err != nil {
		return "", err
	}

	b.logger.Info("user added", zap.String("email", email))
	return fmt.Sprintf("✅ User **%s** <%s> successfully added with phone: **%s**.", name, email, phone), nil
}

// HandleDelete removes records. Identifier strategies are tried in order
// of extraction only: once an email, quoted name or free-text target is
// found, a miss against the collection reports not-found rather than
// falling through to the next strategy.
func (b *Bot) HandleDelete(ctx context.Context, command string) (string, error) {
	users, err := b.store.Load(ctx)
	if err != nil {
		return "", err
	}

	if email, ok := ExtractEmail(command); ok {
		kept := keep(users, func(u models.User) bool { return u.Email != email })
		if len(kept) == len(users) {
			return fmt.Sprintf("User with email **%s** not found.", email), nil
		}
		if err := b.store.Save(ctx, kept); err != nil {
			return "", err
		}
		b.logger.Info("user removed", zap.String("email", email))
		return fmt.Sprintf("🗑️ User **%s** removed.", email), nil
	}

	if name, ok := ExtractQuotedName(command); ok {
		key := strings.ToLower(name)
		kept := keep(users, func(u models.User) bool { return strings.ToLower(u.Name) != key })
		if len(kept) == len(users) {
			return fmt.Sprintf("User named **%s** not found.", name), nil
		}
		if err := b.store.Save(ctx, kept); err != nil {
			return "", err
		}
		b.logger.Info("user removed", zap.String("name", name))
		return fmt.Sprintf("🗑️ User **%s** removed.", name), nil
	}

	if target, ok := deleteTarget(command); ok {
		norm := normalizeKey(stripPossessive(strings.ToLower(target)))
		kept := keep(users, func(u models.User) bool {
			return normalizeKey(u.Name) != norm && normalizeKey(u.Email) != norm
		})
		if len(kept) == len(users) {
			return fmt.Sprintf("User **%s** not found.", target), nil
		}
		if err := b.store.Save(ctx, kept); err != nil {
			return "", err
		}
		b.logger.Info("user removed", zap.String("target", target))
		return fmt.Sprintf("🗑️ User **%s** removed.", target), nil
	}

	return "I couldn't find which user to delete. Please specify an email or a quoted name.", nil
}

// HandleUpdate changes a record's city, the only mutable field. Target
// priority: email, quoted name, free text between "update" and "city".
func (b *Bot) HandleUpdate(ctx context.Context, command string) (string, error) {
	users, err := b.store.Load(ctx)
	if err != nil {
		return "", err
	}

	city, ok := ExtractCity(command)
	if !ok {
		return "I couldn't find the new city. Use format: 'update [email|name] city to [CityName]'.", nil
	}

	if email, ok := ExtractEmail(command); ok {
		target := findByEmail(users, email)
		if target == nil {
			return fmt.Sprintf("User with email **%s** not found.", email), nil
		}
		target.City = city
		if err := b.store.Save(ctx, users); err != nil {
			return "", err
		}
		b.logger.Info("user updated", zap.String("email", email), zap.String("city", city))
		return fmt.Sprintf("📝 Successfully updated **%s** city to **%s**.", email, city), nil
	}

	candidate, ok := ExtractQuotedName(command)
	if ok {
		candidate = strings.ToLower(candidate)
	} else {
		candidate, ok = updateTarget(command)
	}
	if !ok {
		return "Please specify which user to update (email or name).", nil
	}

	candidate = stripPossessive(candidate)
	target := findByNormalizedName(users, candidate)
	if target == nil {
		return fmt.Sprintf("User **%s** not found.", candidate), nil
	}
	target.City = city
	if err := b.store.Save(ctx, users); err != nil {
		return "", err
	}
	b.logger.Info("user updated", zap.String("name", candidate), zap.String("city", city))
	return fmt.Sprintf("📝 Successfully updated **%s**'s city to **%s**.", candidate, city), nil
}

// keep filters users to those satisfying pred, preserving order.
func keep(users []models.User, pred func(models.User) bool) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if pred(u) {
			out = append(out, u)
		}
	}
	return out
}
