package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/alexraskin/linkflow/internal/bridge"
	"github.com/alexraskin/linkflow/internal/database"
	"github.com/alexraskin/linkflow/internal/publish"
	"github.com/alexraskin/linkflow/internal/tracking"
)

type ExecuteTemplateFunc func(wr io.Writer, name string, data any) error

type Config struct {
	Version       string
	Port          string
	SessionTTL    time.Duration
	SecureCookies bool
	// BridgeOrigins are the frame origins the host page and the bridge
	// endpoint accept messages from.
	BridgeOrigins []string
}

type Server struct {
	cfg        Config
	server     *http.Server
	assets     http.FileSystem
	tmplFunc   ExecuteTemplateFunc
	sessions   map[string]session
	sessionsMu sync.RWMutex
	db         database.Database
	snapshots  *database.Snapshots
	publisher  *publish.Publisher
	tokens     *tracking.Signer
	tracker    *tracking.Async
	bridge     *bridge.Host
	now        func() time.Time
}

func NewServer(cfg Config, assets http.FileSystem, tmplFunc ExecuteTemplateFunc, db database.Database,
	snapshots *database.Snapshots, publisher *publish.Publisher, tokens *tracking.Signer, tracker *tracking.Async) *Server {

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	s := &Server{
		cfg:       cfg,
		assets:    assets,
		tmplFunc:  tmplFunc,
		sessions:  make(map[string]session),
		db:        db,
		snapshots: snapshots,
		publisher: publisher,
		tokens:    tokens,
		tracker:   tracker,
		// The host page writes the clipboard itself, so the server side
		// host only enforces the origin policy and records the click.
		bridge: bridge.NewHost(bridge.NewAllowList(cfg.BridgeOrigins...), nil, tracker),
		now:    time.Now,
	}

	s.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) Close() {
	if err := s.server.Close(); err != nil {
		panic(err)
	}
}

func FormatBuildVersion(version string) string {
	return fmt.Sprintf("Go Version: %s\nVersion: %s\nOS/Arch: %s/%s", runtime.Version(), version, runtime.GOOS, runtime.GOARCH)
}
