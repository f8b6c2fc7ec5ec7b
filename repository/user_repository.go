// Package repository implements the Postgres-backed record store. The
// directory is distributed across shards by email hash; each command still
// sees it as one flat collection that is fully read and fully rewritten.
package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/wpbrigade/admin-chatbot/models"
	"github.com/wpbrigade/admin-chatbot/sharding"
)

// UserRepository adapts sharded Postgres to the store contract: Load
// gathers every shard, Save rewrites every shard's slice of the
// collection. The position column preserves collection order across the
// shard merge.
type UserRepository struct {
	shardManager *sharding.ShardManager
}

// NewUserRepository creates a repository over the given shard manager.
func NewUserRepository(sm *sharding.ShardManager) *UserRepository {
	return &UserRepository{shardManager: sm}
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		position INTEGER NOT NULL,
		name     TEXT NOT NULL,
		email    TEXT NOT NULL,
		phone    TEXT NOT NULL,
		city     TEXT NOT NULL
	)
`

// EnsureSchema creates the users table on every shard primary.
func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	for _, shard := range r.shardManager.AllShards() {
		if _, err := shard.Primary.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to create schema on shard %d: %w", shard.ShardID, err)
		}
	}
	return nil
}

// Load retrieves the whole directory. Reads go to replicas where
// available to keep load off the primaries.
func (r *UserRepository) Load(ctx context.Context) ([]models.User, error) {
	type positioned struct {
		pos  int
		user models.User
	}
	var all []positioned

	query := `SELECT position, name, email, phone, city FROM users`

	for _, shard := range r.shardManager.AllShards() {
		rows, err := shard.ReadDB().QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to query shard %d: %w", shard.ShardID, err)
		}

		for rows.Next() {
			var p positioned
			if err := rows.Scan(&p.pos, &p.user.Name, &p.user.Email, &p.user.Phone, &p.user.City); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan user from shard %d: %w", shard.ShardID, err)
			}
			all = append(all, p)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error iterating rows from shard %d: %w", shard.ShardID, err)
		}
		rows.Close()
	}

	sort.Slice(all, func(i, j int) bool { return all[i].pos < all[j].pos })

	users := make([]models.User, 0, len(all))
	for _, p := range all {
		users = append(users, p.user.Normalized())
	}
	return users, nil
}

// Save overwrites the directory. Each shard primary is rewritten in a
// transaction with the records whose email hashes to it; a record's
// position is its index in the collection. Buckets are keyed by slice
// index, the same index ShardIDFor produces, never by the configured
// ShardID label.
func (r *UserRepository) Save(ctx context.Context, users []models.User) error {
	shards := r.shardManager.AllShards()

	byShard := make([][]int, len(shards))
	for i, u := range users {
		idx := r.shardManager.ShardIDFor(u.Email)
		byShard[idx] = append(byShard[idx], i)
	}

	for idx, shard := range shards {
		tx, err := shard.Primary.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction on shard %d: %w", shard.ShardID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to clear shard %d: %w", shard.ShardID, err)
		}

		insert := `INSERT INTO users (position, name, email, phone, city) VALUES ($1, $2, $3, $4, $5)`
		for _, pos := range byShard[idx] {
			u := users[pos]
			if _, err := tx.ExecContext(ctx, insert, pos, u.Name, u.Email, u.Phone, u.City); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to insert user into shard %d: %w", shard.ShardID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit shard %d: %w", shard.ShardID, err)
		}
	}

	return nil
}

// CountPerShard returns the number of records on each shard. Useful for
// checking how evenly the directory is distributed.
func (r *UserRepository) CountPerShard(ctx context.Context) (map[int]int, error) {
	counts := make(map[int]int)

	for _, shard := range r.shardManager.AllShards() {
		var count int
		err := shard.Primary.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to count users in shard %d: %w", shard.ShardID, err)
		}
		counts[shard.ShardID] = count
	}

	return counts, nil
}
