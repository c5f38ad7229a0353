package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"tailscale.com/tsnet"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/ai"
	"github.com/claude/liftlog/internal/ingest/freetext"
	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/persist"
	"github.com/claude/liftlog/internal/server"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/storage/sqlite"
	"github.com/claude/liftlog/internal/vocab"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// store is what both database backends provide.
type store interface {
	catalog.Store
	persist.Store
	server.Queries
	ListExercises(ctx context.Context, ownerID uuid.UUID) ([]models.ExerciseRow, error)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (empty reads LIFTLOG_* environment only)")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)
	log.Info("liftlog starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, closeDB, err := openStore(ctx, cfg.Database, *migrateOnly, log)
	if err != nil {
		log.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	if db == nil {
		log.Info("migrate-only: exiting")
		return
	}
	defer closeDB()

	v, err := vocab.LoadFile(cfg.Vocabulary.Path)
	if err != nil {
		log.Error("failed to load vocabulary", "error", err)
		os.Exit(1)
	}

	var fallback ingest.Fallback
	if cfg.AI.Enabled {
		completer, err := ai.NewAnthropic(ai.AnthropicConfig{
			APIKey:    cfg.AI.APIKey,
			Model:     cfg.AI.Model,
			BaseURL:   cfg.AI.BaseURL,
			MaxTokens: cfg.AI.MaxTokens,
		})
		if err != nil {
			log.Error("failed to create ai completer", "error", err)
			os.Exit(1)
		}
		if cfg.AI.APIKey == "" {
			log.Warn("ai enabled without api key, fallback parsing will always degrade")
		}
		fallback = ai.NewParser(completer, v, cfg.AI.Timeout, log)
	}

	orch := ingest.NewOrchestrator(freetext.New(v), fallback, log)
	writer := persist.NewWriter(db, catalog.NewResolver(db, log), log)
	tokens := auth.NewResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	if rows, err := db.ListExercises(ctx, uuid.Nil); err != nil {
		log.Warn("catalog check failed", "error", err)
	} else {
		log.Info("catalog loaded", "shared_exercises", len(rows))
	}

	srv := server.New(orch, writer, db, tokens, log)
	srv.Handle("/mcp", mcp.NewHTTPHandler(mcp.New(orch, writer, db, Version, log)))

	// Listen on the tailnet or plain TCP.
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openStore connects the configured backend. PostgreSQL is migrated first;
// with migrateOnly it returns a nil store after migrating.
func openStore(ctx context.Context, cfg config.DatabaseConfig, migrateOnly bool, log *slog.Logger) (store, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sqlite database opened", "path", cfg.Path)
		if migrateOnly {
			return nil, nil, s.Close()
		}
		return s, func() { s.Close() }, nil

	default:
		dsn := cfg.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations applied")
		if migrateOnly {
			return nil, nil, nil
		}

		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected")
		return db, db.Close, nil
	}
}
