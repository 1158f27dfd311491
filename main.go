package main

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexraskin/linkflow/internal/cache"
	"github.com/alexraskin/linkflow/internal/config"
	"github.com/alexraskin/linkflow/internal/database"
	"github.com/alexraskin/linkflow/internal/logging"
	"github.com/alexraskin/linkflow/internal/publish"
	"github.com/alexraskin/linkflow/internal/sandbox"
	"github.com/alexraskin/linkflow/internal/tracking"
	"github.com/alexraskin/linkflow/server"
)

var (
	version = "dev"
)

//go:embed templates/*.html
var templatesFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	tmpl, err := template.New("").ParseFS(templatesFiles, "templates/*.html")
	if err != nil {
		panic(fmt.Errorf("failed to parse templates: %w", err))
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Open(startCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	snapshotCache, err := newCache(startCtx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = snapshotCache.Close() }()

	host, err := sandbox.NewHost(sandbox.Config{
		WidgetStylesheet:    cfg.WidgetStylesheetURL,
		WidgetScript:        cfg.WidgetScriptURL,
		HostOrigin:          cfg.HostOrigin(),
		AutoOpenMaxAttempts: cfg.AutoOpenMaxAttempts,
	})
	if err != nil {
		return err
	}

	secret := cfg.TrackSecret
	if secret == "" {
		secret = randomSecret()
		slog.Warn("TRACK_SECRET is not set, using a random secret; visit tokens will not survive a restart")
	}
	signer := tracking.NewSigner(secret, tracking.DefaultTokenTTL)
	tracker := tracking.NewAsync(db, tracking.DefaultTimeout)

	srv := server.NewServer(
		server.Config{
			Version:       server.FormatBuildVersion(version),
			Port:          cfg.Port,
			SessionTTL:    cfg.AdminSessionDuration,
			SecureCookies: cfg.Production(),
			BridgeOrigins: cfg.BridgeOrigins,
		},
		http.FS(staticFiles),
		tmpl.ExecuteTemplate,
		db,
		database.NewSnapshots(db, snapshotCache),
		publish.New(host, signer, "/api/track"),
		signer,
		tracker,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Started server", slog.String("listen_addr", ":"+cfg.Port))
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		tracker.Wait()
		return err
	})
	if mem, ok := snapshotCache.(*cache.Cache); ok {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.CacheTTL)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					mem.Purge()
				}
			}
		})
	}

	return g.Wait()
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Backend, error) {
	if cfg.RedisURL == "" {
		return cache.NewCache(cfg.CacheTTL), nil
	}
	r, err := cache.NewRedis(ctx, cfg.RedisURL, "linkflow:", cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Using redis snapshot cache")
	return r, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate track secret: " + err.Error())
	}
	return hex.EncodeToString(b)
}
