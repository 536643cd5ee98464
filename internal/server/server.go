// Package server is the thin development host around the pipeline. It
// serves transformed resources over HTTP and pushes reload events to
// connected browsers over a websocket when a rebuild generation completes.
// The HTTP lifecycle itself stays outside the transform engine; this server
// only drives the bundler boundary.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/shpaw415/frame-master-sub000/internal/config"
	"github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/host"
	"github.com/shpaw415/frame-master-sub000/internal/logging"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// Server serves pipeline output during development.
type Server struct {
	cfg       *config.Config
	bundler   *host.Bundler
	logger    logging.Logger
	collector *errors.ErrorCollector

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a development server over the bundler.
func New(cfg *config.Config, bundler *host.Bundler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		cfg:       cfg,
		bundler:   bundler,
		logger:    logger.WithComponent("server"),
		collector: errors.NewErrorCollector(),
		clients:   make(map[*websocket.Conn]struct{}),
	}
}

// Errors exposes the failures recorded while serving resources.
func (s *Server) Errors() *errors.ErrorCollector {
	return s.collector
}

// Start runs the HTTP server until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleResource)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "development server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleResource runs the requested path through the bundler and writes the
// transformed content.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" {
		rel = "index.html"
	}

	path, err := s.resolvePath(rel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	result, err := s.bundler.Load(r.Context(), types.Resource{
		Path:      path,
		Namespace: registry.DefaultNamespace,
	})
	if err != nil {
		s.collector.Record(path, err)
		s.logger.Error(r.Context(), err, "resource failed", "path", path)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(result.Kind))
	_, _ = w.Write(result.Content)
}

// resolvePath maps a request path onto the first configured build root
// that contains it, refusing paths that escape the roots.
func (s *Server) resolvePath(rel string) (string, error) {
	if strings.Contains(rel, "..") {
		return "", fmt.Errorf("invalid path %q", rel)
	}
	for _, root := range s.cfg.Build.Roots {
		candidate := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no build root contains %q", rel)
}

// handleWebSocket registers a browser for reload notifications.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		_ = conn.CloseNow()
	}()

	// Hold the connection open; clients only listen.
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}

// NotifyReload broadcasts a reload event to every connected client. The
// serve command calls it after a rebuild generation.
func (s *Server) NotifyReload(ctx context.Context) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, time.Second)
		_ = conn.Write(writeCtx, websocket.MessageText, []byte("reload"))
		cancel()
	}
}

func contentTypeFor(kind types.Kind) string {
	switch kind {
	case types.KindScript:
		return "application/javascript; charset=utf-8"
	case types.KindStyle:
		return "text/css; charset=utf-8"
	case types.KindMarkup:
		return "text/html; charset=utf-8"
	case types.KindJSON:
		return "application/json; charset=utf-8"
	case types.KindText:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
