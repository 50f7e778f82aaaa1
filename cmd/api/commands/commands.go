package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flightdeck/rpas-checklist/internal/adapters/repository"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/config"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/database"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/server"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// Build metadata, set with -ldflags "-X .../commands.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the checklist server",
		Long:  "Start the checklist server: hydrate the stored checklist, then serve the page, the API and the app assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db *database.DB) error {
				if err := db.MigrateUp(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migration up completed successfully")
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db *database.DB) error {
				if err := db.MigrateDown(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migration down completed successfully")
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db *database.DB) error {
				version, dirty, err := db.MigrationVersion()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
				return nil
			})
		},
	})

	return migrateCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print RPAS Checklist version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "RPAS Checklist %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", Commit)
		},
	}
}

func runServer(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to open checklist store", "backend", cfg.Storage.Backend, "error", err)
		return err
	}
	defer st.close()

	var srv *server.Server
	if st.db != nil {
		srv, err = server.New(cfg, st.db, appLogger)
	} else {
		srv, err = server.NewWithRepository(cfg, st.repo, appLogger)
	}
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	appLogger.Infow("Starting RPAS Checklist server",
		"address", cfg.Server.GetAddr(),
		"environment", cfg.App.Environment,
		"backend", st.name,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Errorw("Server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
		return err
	}
	appLogger.Infow("Server stopped")
	return nil
}

// withDatabase loads configuration and opens the database without running
// migrations, for commands that manage the schema themselves.
func withDatabase(fn func(db *database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(db)
}

// store is the slot backend opened for one command run
type store struct {
	name  string
	db    *database.DB
	repo  ports.StateRepository
	close func() error
}

// openStore opens the configured slot backend. The sql backend runs
// migrations when auto_migrate is set.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	if cfg.Storage.Backend == "redis" {
		client, err := database.ConnectRedis(ctx, cfg.Storage.Redis, log)
		if err != nil {
			return nil, err
		}
		return &store{
			name:  "redis",
			repo:  repository.NewRedisStateRepository(client, cfg.Storage.Redis.KeyPrefix),
			close: client.Close,
		}, nil
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &store{
		name:  db.Driver(),
		db:    db,
		repo:  repository.NewStateRepository(db.DB),
		close: db.Close,
	}, nil
}
