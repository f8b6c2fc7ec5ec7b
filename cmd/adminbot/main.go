package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wpbrigade/admin-chatbot/chatbot"
	"github.com/wpbrigade/admin-chatbot/config"
	"github.com/wpbrigade/admin-chatbot/repository"
	"github.com/wpbrigade/admin-chatbot/server"
	"github.com/wpbrigade/admin-chatbot/sharding"
	"github.com/wpbrigade/admin-chatbot/store"
)

var (
	flagConfig  string
	flagVerbose bool
	flagByShard bool

	logger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "adminbot",
	Short:         "Conversational admin front-end over the user directory",
	Long:          "adminbot accepts free-text admin commands (add/delete/update), extracts the structured fields and mutates the persisted user directory.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if flagVerbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file (default: built-in file-backed config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	usersCmd.Flags().BoolVar(&flagByShard, "by-shard", false, "show per-shard record counts (postgres backend only)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(usersCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP boundary (login, chat and user listing)",
	RunE:  runServe,
}

var chatCmd = &cobra.Command{
	Use:   "chat [command]",
	Short: "Run a single admin command and print the response",
	Long: `Runs one free-text command through the full pipeline:
classify the intent, extract the fields, mutate the directory.

Example:
  adminbot chat 'add "John Smith" john@x.com phone +15551234567'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the records in the directory",
	RunE:  runUsers,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, st, _, cleanup, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	bot := chatbot.New(st, logger)
	srv := server.New(bot, cfg.Server.AdminEmail, logger)

	logger.Info("listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("backend", cfg.Store.Backend))
	return http.ListenAndServe(cfg.Server.Addr, srv)
}

func runChat(cmd *cobra.Command, args []string) error {
	_, st, _, cleanup, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	bot := chatbot.New(st, logger)
	response, err := bot.Respond(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(response)
	return nil
}

func runUsers(cmd *cobra.Command, args []string) error {
	_, st, repo, cleanup, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if flagByShard {
		if repo == nil {
			return fmt.Errorf("--by-shard requires the postgres backend")
		}
		counts, err := repo.CountPerShard(cmd.Context())
		if err != nil {
			return err
		}
		for shardID := 0; shardID < len(counts); shardID++ {
			fmt.Printf("shard %d: %d users\n", shardID, counts[shardID])
		}
		return nil
	}

	users, err := st.Load(cmd.Context())
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("%-24s %-32s %-16s %s\n", u.Name, u.Email, u.Phone, u.City)
	}
	return nil
}

// openStore builds the configured store backend. The repository return is
// non-nil only on the postgres backend, where shard-level operations are
// available.
func openStore(ctx context.Context) (*config.Config, store.Store, *repository.UserRepository, func(), error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}

	noop := func() {}
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return cfg, store.NewMemoryStore(), nil, noop, nil
	case config.BackendFile:
		return cfg, store.NewFileStore(cfg.Store.DataFile, logger), nil, noop, nil
	case config.BackendPostgres:
		sm, err := sharding.NewShardManager(cfg.Store.Shards)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		repo := repository.NewUserRepository(sm)
		if err := repo.EnsureSchema(ctx); err != nil {
			sm.Close()
			return nil, nil, nil, nil, err
		}
		return cfg, repo, repo, func() { _ = sm.Close() }, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
