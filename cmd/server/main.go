/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift pay server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load SHIFTPAY_ environment configuration
  2. Apply command-line flag overrides
  3. Initialize logging and the SQLite store
  4. Apply the configured default currency to untouched settings
  5. Start the backup scheduler when a backup directory is set
  6. Configure HTTP router and start the server

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides SHIFTPAY_PORT)
  -db      SQLite database path (overrides SHIFTPAY_DB_PATH)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHIFTPAY_SHUTDOWN_TIMEOUT)
  3. Stop the backup scheduler
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server -db="./data/shiftpay.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Nightly backups kept for two weeks
  SHIFTPAY_BACKUP_DIR=./backups SHIFTPAY_BACKUP_KEEP=14 ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/warp/shift-pay/api"
	"github.com/warp/shift-pay/backup"
	"github.com/warp/shift-pay/config"
	"github.com/warp/shift-pay/logging"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(os.Stderr, "info")
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides SHIFTPAY_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides SHIFTPAY_DB_PATH)")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = strconv.Itoa(*port)
		case "db":
			cfg.DBPath = *dbPath
		}
	})

	logger := logging.Init(os.Stdout, cfg.LogLevel)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	ctx := context.Background()
	if changed, err := pay.ApplyDefaultCurrency(ctx, store, cfg.DefaultCurrency); err != nil {
		logger.Warn().Err(err).Msg("failed to apply default currency")
	} else if changed {
		logger.Info().Str("currency", cfg.DefaultCurrency).Msg("default currency applied")
	}

	// Initialize handler
	handler := api.NewHandler(store)
	handler.Logger = logger

	if cfg.Backup.Dir != "" {
		sched := backup.NewScheduler(store, cfg.Backup.Dir)
		sched.Interval = cfg.BackupInterval()
		sched.Keep = cfg.Backup.Keep
		sched.Logger = logger
		sched.Start()
		defer sched.Stop()
		handler.Backups = sched
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(handler, cfg.AllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Str("db", cfg.DBPath).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server stopped")
}
