/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the SmartStock ledger server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment (.env honored)
  2. Initialize SQLite store
  3. Build registry, reports service, and API handler
  4. Configure HTTP router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (configurable timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - config/config.go: Environment configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartstock/ledger-engine/api"
	"github.com/smartstock/ledger-engine/config"
	"github.com/smartstock/ledger-engine/ledger"
	"github.com/smartstock/ledger-engine/logging"
	"github.com/smartstock/ledger-engine/reports"
	"github.com/smartstock/ledger-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level)

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	registry := ledger.NewRegistry(store)
	reportsSvc := reports.NewService(registry)
	auth := api.NewAuthenticator(
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		cfg.Auth.AdminUser,
		cfg.Auth.AdminPassword,
	)

	handler := api.NewHandler(registry, reportsSvc, auth, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.App.Port, "db", cfg.DB.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
