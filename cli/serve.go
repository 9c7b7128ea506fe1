/*
serve.go - The billsplit web server

PURPOSE:
  Starts the HTTP server serving the web UI and the JSON API. Receipts
  live in in-memory sessions; the groups cache is SQLite when a database
  path is configured and in-memory otherwise.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flag overrides)
  2. Install the process-wide logger
  3. Open the groups store
  4. Start the session janitor
  5. Serve until SIGINT/SIGTERM, then drain for up to 30s

FLAGS:
  --addr   listen address, overrides BILLSPLIT_ADDR (default :8080)
  --db     groups database path, overrides BILLSPLIT_DB
           (empty keeps the cache in memory)

SEE ALSO:
  - config: Environment keys and defaults
  - api/server.go: Route table
  - api/sessions.go: Session registry and janitor
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/billsplit/api"
	"github.com/warp/billsplit/config"
	"github.com/warp/billsplit/groups"
	"github.com/warp/billsplit/logging"
	"github.com/warp/billsplit/store/sqlite"
)

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the billsplit web server",
		Long: `Serve the web UI and the JSON API.

Configuration comes from the environment (a .env file is honored);
flags override it. Without --db or BILLSPLIT_DB the recently-used
groups cache lives in memory and is lost on restart.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides BILLSPLIT_ADDR)")
	cmd.Flags().String("db", "", "groups database path (overrides BILLSPLIT_DB)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DBPath = db
	}

	logger := logging.FromEnv()
	slog.SetDefault(logger)

	store, err := openGroupStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions := api.NewSessions(logger)
	sessions.StartJanitor()
	defer sessions.StopJanitor()

	handler := api.NewHandler(sessions, store, cfg.Currency, logger)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	failed := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "currency", cfg.Currency)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			failed <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-failed:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openGroupStore(cfg *config.Config, logger *slog.Logger) (groups.Store, error) {
	if cfg.DBPath == "" {
		logger.Info("groups cache in memory, set BILLSPLIT_DB to persist")
		return groups.NewMemory(), nil
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("groups cache on disk", "path", cfg.DBPath)
	return store, nil
}
