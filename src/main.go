package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"financeio-server/src/api"
	"financeio-server/src/config"
	"financeio-server/src/db"
	"financeio-server/src/lta"
	"financeio-server/src/util"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}

	cache, err := db.NewIndexCache(cfg.LTA.IndexTTL)
	if err != nil {
		log.Fatalf("Cache init failed: %v", err)
	}
	defer cache.Close()

	client := lta.NewClient(cfg.LTA, cache)
	tokens := util.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if cfg.JWTSecret == "" {
		log.Println("WARN: JWT_SECRET is empty; bearer tokens are disabled")
		tokens = nil
	}

	// Router
	router := api.NewRouter(cfg, pool, client, cache, tokens)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("API server running on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Graceful shutdown failed: %v", err)
	}
}
