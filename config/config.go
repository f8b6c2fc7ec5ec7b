package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends selectable via Config.Store.Backend.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DatabaseConfig represents a single database connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// ShardConfig represents configuration for a single shard
type ShardConfig struct {
	ShardID  int              `yaml:"shard_id"`
	Primary  DatabaseConfig   `yaml:"primary"`
	Replicas []DatabaseConfig `yaml:"replicas"`
}

// StoreConfig selects and parameterizes the record store backend.
type StoreConfig struct {
	Backend  string        `yaml:"backend"`
	DataFile string        `yaml:"data_file"`
	Shards   []ShardConfig `yaml:"shards"`
}

// ServerConfig holds the HTTP boundary settings.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	AdminEmail string `yaml:"admin_email"`
}

// Config holds the complete application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
}

// ConnectionString returns a PostgreSQL connection string
func (dc *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dc.Host, dc.Port, dc.User, dc.Password, dc.DBName,
	)
}

// DefaultConfig returns the file-backed single-admin configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":5000",
			AdminEmail: "wpbrigade@company.com",
		},
		Store: StoreConfig{
			Backend:  BackendFile,
			DataFile: "user_data.json",
		},
	}
}

// Load reads a YAML config file and fills unset fields from
// DefaultConfig. A missing path returns the defaults untouched.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.AdminEmail == "" {
		cfg.Server.AdminEmail = DefaultConfig().Server.AdminEmail
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendFile
	}
	if cfg.Store.DataFile == "" {
		cfg.Store.DataFile = DefaultConfig().Store.DataFile
	}
	return cfg, nil
}

// Validate rejects configurations the backends cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.DataFile == "" {
			return fmt.Errorf("file backend requires store.data_file")
		}
	case BackendPostgres:
		if len(c.Store.Shards) == 0 {
			return fmt.Errorf("postgres backend requires at least one shard")
		}
		// Record placement hashes to a slice index, so shard IDs must be
		// the positions 0..n-1 or records land on the wrong shard.
		for i, shard := range c.Store.Shards {
			if shard.ShardID != i {
				return fmt.Errorf("shard at position %d has shard_id %d; shard IDs must match their position", i, shard.ShardID)
			}
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	return nil
}
