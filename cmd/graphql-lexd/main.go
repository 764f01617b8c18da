// Command graphql-lexd runs the graphql-lexer HTTP/WebSocket service:
// it loads a YAML config, connects to Redis and SQLite, and serves
// POST /lex and GET /ws until SIGINT/SIGTERM.
//
// Grounded on cmd/arturo-console/main.go's daemon bootstrap shape (flag
// parsing, Redis ping-on-startup, graceful shutdown).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/holla2040/graphql-lexer/internal/api"
	"github.com/holla2040/graphql-lexer/internal/cache"
	"github.com/holla2040/graphql-lexer/internal/config"
	"github.com/holla2040/graphql-lexer/internal/store"
)

func main() {
	configPath := flag.String("config", "graphql-lexd.yaml", "path to the service config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphql-lexd: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, time.Duration(cfg.CacheTTLSec)*time.Second)
	defer c.Close()
	if err := c.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to Redis at %s: %v\n", cfg.Redis.Addr, err)
		os.Exit(1)
	}
	log.Printf("Connected to Redis at %s", cfg.Redis.Addr)

	st, err := store.New(cfg.Store.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store %s: %v\n", cfg.Store.DSN, err)
		os.Exit(1)
	}
	defer st.Close()
	log.Printf("Opened store at %s", cfg.Store.DSN)

	hub := api.NewHub()
	go hub.Run(ctx)

	go func() {
		if err := c.WatchInvalidations(ctx, func(key string) {
			log.Printf("cache: invalidated %s", key)
		}); err != nil && ctx.Err() == nil {
			log.Printf("cache: invalidation watch stopped: %v", err)
		}
	}()

	handler := &api.Handler{
		Store:      st,
		Cache:      c,
		Hub:        hub,
		StrictMode: cfg.StrictMode,
	}
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		log.Printf("graphql-lexd listening on %s (strict=%v)", cfg.HTTPAddr, cfg.StrictMode)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	log.Println("Shutdown complete")
}
