package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duitku/duitku-backend/internal/adapter/httpapi"
	"github.com/duitku/duitku-backend/internal/adapter/repository/postgres"
	"github.com/duitku/duitku-backend/internal/adapter/repository/sqlite"
	"github.com/duitku/duitku-backend/internal/auth"
	"github.com/duitku/duitku-backend/internal/config"
	"github.com/duitku/duitku-backend/internal/domain"
	"github.com/duitku/duitku-backend/internal/usecase/export"
	"github.com/duitku/duitku-backend/internal/usecase/session"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Open the local store (required: it is the offline fallback)
	localStore, err := sqlite.Open(cfg.LocalStore.Path)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	// 3. Open the remote store (optional: absence means local-only mode)
	var remoteStore domain.DocumentStore
	if cfg.RemoteStore.ConnString != "" {
		db, err := postgres.NewDB(cfg.RemoteStore.ConnString)
		if err != nil {
			log.Printf("Cloud sync unavailable, continuing in local-only mode: %v", err)
		} else {
			defer db.Close()
			if err := postgres.EnsureSchema(context.Background(), db); err != nil {
				log.Printf("Cloud sync unavailable, continuing in local-only mode: %v", err)
			} else {
				remoteStore = postgres.NewRemoteStore(db)
				log.Println("Cloud sync enabled")
			}
		}
	} else {
		log.Println("No remote store configured, running local-only")
	}

	// 4. Wire services
	provider := auth.NewProvider(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.ExpireHours)*time.Hour)
	sessions := session.NewManager(localStore, remoteStore, provider)
	handler := httpapi.NewHandler(sessions, provider, export.NewService())
	router := httpapi.SetupRouter(cfg, handler, provider, sessions)

	// 5. Start HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(srv)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
