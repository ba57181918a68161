package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/blog-api/internal/api"
	"github.com/dom/blog-api/internal/config"
	"github.com/dom/blog-api/internal/repository/postgres"
	"github.com/dom/blog-api/internal/service"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

// run owns every deferred cleanup. Only main exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, logLevel)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Printf("ERROR [main] failed to close database: %v", err)
		}
	}()

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize services
	services, err := service.NewServices(repos, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      api.NewRouter(services, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serve(srv, quit, 30*time.Second)
}

// serve runs srv until it fails to listen or a signal arrives on quit, then
// shuts it down within grace.
func serve(srv *http.Server, quit <-chan os.Signal, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
