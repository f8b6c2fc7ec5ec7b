package sharding

import (
	"database/sql"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wpbrigade/admin-chatbot/config"
)

// ShardManager manages the directory's database shards and their
// replicas. Records are placed by hashing the user's email, so the same
// address always lands on the same shard.
type ShardManager struct {
	shards    []*Shard
	numShards int
	mu        sync.RWMutex
}

// Shard is a single database shard with primary and replica connections.
type Shard struct {
	ShardID  int
	Primary  *sql.DB
	Replicas []*sql.DB
}

// NewShardManager opens and pings every primary and replica in cfg.
func NewShardManager(shards []config.ShardConfig) (*ShardManager, error) {
	sm := &ShardManager{
		shards:    make([]*Shard, len(shards)),
		numShards: len(shards),
	}

	for i, shardCfg := range shards {
		shard := &Shard{
			ShardID:  shardCfg.ShardID,
			Replicas: make([]*sql.DB, 0, len(shardCfg.Replicas)),
		}

		primaryDB, err := sql.Open("pgx", shardCfg.Primary.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to primary for shard %d: %w", shardCfg.ShardID, err)
		}
		if err := primaryDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping primary for shard %d: %w", shardCfg.ShardID, err)
		}
		shard.Primary = primaryDB

		for j, replicaCfg := range shardCfg.Replicas {
			replicaDB, err := sql.Open("pgx", replicaCfg.ConnectionString())
			if err != nil {
				return nil, fmt.Errorf("failed to connect to replica %d for shard %d: %w", j, shardCfg.ShardID, err)
			}
			if err := replicaDB.Ping(); err != nil {
				return nil, fmt.Errorf("failed to ping replica %d for shard %d: %w", j, shardCfg.ShardID, err)
			}
			shard.Replicas = append(shard.Replicas, replicaDB)
		}

		sm.shards[i] = shard
	}

	return sm, nil
}

// ShardIDOf maps an email to a shard index. FNV-1a gives a good spread
// and is deterministic, so placement survives restarts.
func ShardIDOf(email string, numShards int) int {
	h := fnv.New32a()
	h.Write([]byte(email))
	return int(h.Sum32()) % numShards
}

// ShardIDFor maps an email to its shard.
func (sm *ShardManager) ShardIDFor(email string) int {
	return ShardIDOf(email, sm.numShards)
}

// ReadDB returns a connection for read traffic: a randomly selected
// replica, or the primary when the shard has no replicas.
func (s *Shard) ReadDB() *sql.DB {
	if len(s.Replicas) == 0 {
		return s.Primary
	}
	return s.Replicas[rand.Intn(len(s.Replicas))]
}

// AllShards returns every shard, for operations that scan the whole
// directory.
func (sm *ShardManager) AllShards() []*Shard {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	out := make([]*Shard, len(sm.shards))
	copy(out, sm.shards)
	return out
}

// Close closes all database connections.
func (sm *ShardManager) Close() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var errs []error
	for _, shard := range sm.shards {
		if err := shard.Primary.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close primary for shard %d: %w", shard.ShardID, err))
		}
		for i, replica := range shard.Replicas {
			if err := replica.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close replica %d for shard %d: %w", i, shard.ShardID, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing connections: %v", errs)
	}
	return nil
}
