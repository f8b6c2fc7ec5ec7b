package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpbrigade/admin-chatbot/config"
	"github.com/wpbrigade/admin-chatbot/models"
	"github.com/wpbrigade/admin-chatbot/sharding"
)

// These tests need live Postgres shards (see testShards for the expected
// ports); set ADMINBOT_PG_TEST=1 to run them.

func testShards() []config.ShardConfig {
	db := func(port int, name string) config.DatabaseConfig {
		return config.DatabaseConfig{
			Host: "localhost", Port: port,
			User: "postgres", Password: "postgres", DBName: name,
		}
	}
	return []config.ShardConfig{
		{ShardID: 0, Primary: db(5440, "shard0"), Replicas: []config.DatabaseConfig{db(5441, "shard0")}},
		{ShardID: 1, Primary: db(5442, "shard1"), Replicas: []config.DatabaseConfig{db(5443, "shard1")}},
		{ShardID: 2, Primary: db(5444, "shard2"), Replicas: []config.DatabaseConfig{db(5445, "shard2")}},
	}
}

func setupTestRepository(t *testing.T) (*UserRepository, func()) {
	t.Helper()
	if os.Getenv("ADMINBOT_PG_TEST") == "" {
		t.Skip("set ADMINBOT_PG_TEST=1 to run Postgres integration tests")
	}

	sm, err := sharding.NewShardManager(testShards())
	require.NoError(t, err)

	repo := NewUserRepository(sm)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.Save(ctx, nil))

	cleanup := func() {
		_ = repo.Save(ctx, nil)
		sm.Close()
	}
	return repo, cleanup
}

func TestUserRepository_SaveAndLoad(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx := context.Background()

	saved := []models.User{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: "+1555", City: "Lima"},
		{Name: "Bob Wilson", Email: "bob@example.com", Phone: "N/A", City: "N/A"},
		{Name: "Charlie Brown", Email: "charlie@example.com", Phone: "N/A", City: "Quito"},
	}
	require.NoError(t, repo.Save(ctx, saved))

	// Wait for replication to propagate before reading replicas.
	time.Sleep(200 * time.Millisecond)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded, "collection order survives the shard merge")
}

func TestUserRepository_SaveOverwrites(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []models.User{
		{Name: "Alice", Email: "alice@example.com", Phone: "N/A", City: "N/A"},
		{Name: "Bob", Email: "bob@example.com", Phone: "N/A", City: "N/A"},
	}))
	require.NoError(t, repo.Save(ctx, []models.User{
		{Name: "Bob", Email: "bob@example.com", Phone: "N/A", City: "Lima"},
	}))

	time.Sleep(200 * time.Millisecond)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "bob@example.com", loaded[0].Email)
	assert.Equal(t, "Lima", loaded[0].City)
}

func TestUserRepository_CountPerShard(t *testing.T) {
	repo, cleanup := setupTestRepository(t)
	defer cleanup()

	ctx := context.Background()

	users := make([]models.User, 0, 9)
	for _, email := range []string{
		"u1@example.com", "u2@example.com", "u3@example.com",
		"u4@example.com", "u5@example.com", "u6@example.com",
		"u7@example.com", "u8@example.com", "u9@example.com",
	} {
		users = append(users, models.User{Name: "N/A", Email: email, Phone: "N/A", City: "N/A"})
	}
	require.NoError(t, repo.Save(ctx, users))

	counts, err := repo.CountPerShard(ctx)
	require.NoError(t, err)

	total := 0
	for shardID, count := range counts {
		t.Logf("Shard %d: %d users", shardID, count)
		total += count
	}
	assert.Equal(t, len(users), total)
}
