package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// DefaultAddr is the default listen address for the preview server.
	DefaultAddr = ":8000"

	// DefaultPollInterval is how often the output directory is checked
	// for changes when live reload is enabled.
	DefaultPollInterval = time.Second

	// reloadMessage is pushed over the websocket when the output
	// directory changes. The generated script.js reloads the page when
	// it receives this exact message.
	reloadMessage = "reload"
)

// ErrOutputDirNotFound is returned when the directory to serve does not exist.
var ErrOutputDirNotFound = errors.New("output directory not found")

// Server serves a generated site directory over HTTP for local preview.
type Server struct {
	// outputDir is the directory containing the generated site.
	outputDir string

	// addr is the listen address (host:port).
	addr string

	// liveReload enables the /ws endpoint and the change watcher.
	liveReload bool

	// pollInterval is the change-detection polling interval.
	pollInterval time.Duration

	// logger is used for server logging.
	logger *slog.Logger

	// engine is the underlying gin router.
	engine *gin.Engine

	// upgrader upgrades /ws requests to websocket connections.
	upgrader websocket.Upgrader

	// mu protects conns.
	mu sync.Mutex

	// conns holds the currently connected reload clients.
	conns map[*websocket.Conn]struct{}
}

// Option is a functional option for configuring the Server.
type Option func(*Server)

// WithAddr sets the listen address. Default is ":8000".
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLiveReload enables the reload websocket and the change watcher.
func WithLiveReload(enabled bool) Option {
	return func(s *Server) {
		s.liveReload = enabled
	}
}

// WithPollInterval sets the change-detection polling interval.
// Non-positive intervals are ignored.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Server) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// WithPreviewLogger sets the logger for the server.
func WithPreviewLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a preview server for the given output directory.
// It returns ErrOutputDirNotFound if the directory does not exist; the
// site must be generated before it can be previewed.
func NewServer(outputDir string, opts ...Option) (*Server, error) {
	info, err := os.Stat(outputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrOutputDirNotFound, outputDir)
	}

	s := &Server{
		outputDir:    outputDir,
		addr:         DefaultAddr,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The server only binds locally for preview, so any
			// page it served may open the reload socket.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	if s.liveReload {
		engine.GET("/ws", s.handleReloadSocket)
	}
	engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.outputDir))))

	s.engine = engine
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP handler serving the site. It is exposed so the
// server can be driven by httptest in addition to Serve.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve runs the server until the context is cancelled. When live reload
// is enabled it also runs the change watcher. A cancelled context shuts
// the server down gracefully and returns nil.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.liveReload {
		go s.watch(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("preview server started",
		"addr", s.addr,
		"dir", s.outputDir,
		"live_reload", s.liveReload)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down preview server: %w", err)
		}
		<-errCh // ListenAndServe returns http.ErrServerClosed after Shutdown
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server failed: %w", err)
	}
}

// handleReloadSocket upgrades the request to a websocket and registers the
// connection for reload broadcasts. The connection is dropped when the
// client disconnects.
func (s *Server) handleReloadSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	s.logger.Debug("reload client connected", "remote", conn.RemoteAddr().String())

	// Drain the connection until the client goes away. Clients never send
	// meaningful messages; the read loop only detects disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close() //nolint:errcheck // Already disconnecting
	}()
}

// watch polls the output directory and broadcasts a reload message when
// its newest modification time advances.
func (s *Server) watch(ctx context.Context) {
	last, err := latestModTime(s.outputDir)
	if err != nil {
		s.logger.Warn("failed to scan output directory", "error", err)
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current, err := latestModTime(s.outputDir)
			if err != nil {
				s.logger.Warn("failed to scan output directory", "error", err)
				continue
			}
			if current.After(last) {
				last = current
				s.broadcastReload()
			}
		}
	}
}

// broadcastReload sends the reload message to every connected client.
// Clients that fail to receive are dropped.
func (s *Server) broadcastReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("output changed, notifying clients", "clients", len(s.conns))

	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			delete(s.conns, conn)
			_ = conn.Close() //nolint:errcheck // Dropping a dead connection
		}
	}
}

// latestModTime returns the newest modification time under dir.
func latestModTime(dir string) (time.Time, error) {
	var latest time.Time

	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	return latest, nil
}
