// FILE: src/internal/status/server.go
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"fanlog/src/internal/version"
	"fanlog/src/logging"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/valyala/fasthttp"
)

// Source supplies the data reported by the status endpoints
type Source interface {
	ID() string
	Uptime() time.Duration
	Stats() []logging.SinkStats
}

// Config holds status server configuration
type Config struct {
	Host string
	Port int
}

// Server serves /status and /health for one provider
type Server struct {
	config    Config
	source    Source
	logger    *log.Logger
	startTime time.Time

	mu       sync.Mutex
	server   *fasthttp.Server
	listener net.Listener

	totalRequests atomic.Uint64
}

// NewServer creates a status server reporting on source
func NewServer(cfg Config, source Source, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Server{
		config:    cfg,
		source:    source,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Start binds the listener and serves until ctx ends or Stop is called
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &fasthttp.Server{
		Name:             fmt.Sprintf("fanlog/%s", version.Short()),
		Handler:          s.requestHandler,
		DisableKeepalive: false,
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     5 * time.Second,
		Logger:           compat.NewFastHTTPAdapter(s.logger),
	}

	s.mu.Lock()
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	go func() {
		s.logger.Info("msg", "Status server started",
			"component", "status",
			"address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil {
			s.logger.Error("msg", "Status server failed",
				"component", "status",
				"error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Addr returns the bound address, or nil before Start
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the server down, waiting up to two seconds for open requests
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()

	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(ctx); err != nil {
		s.logger.Debug("msg", "Status server shutdown incomplete",
			"component", "status",
			"error", err)
	}
	s.logger.Info("msg", "Status server stopped",
		"component", "status",
		"requests", s.totalRequests.Load())
}

func (s *Server) requestHandler(ctx *fasthttp.RequestCtx) {
	s.totalRequests.Add(1)
	ctx.SetContentType("application/json")

	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		json.NewEncoder(ctx).Encode(map[string]string{
			"error": "Method Not Allowed",
		})
		return
	}

	switch string(ctx.Path()) {
	case "/status":
		s.handleStatus(ctx)
	case "/health":
		s.handleHealth(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		json.NewEncoder(ctx).Encode(map[string]string{
			"error": "Not Found",
		})
	}
}

func (s *Server) handleStatus(ctx *fasthttp.RequestCtx) {
	sinks := s.source.Stats()
	if sinks == nil {
		sinks = []logging.SinkStats{}
	}

	status := map[string]any{
		"service":        "fanlog",
		"version":        version.Short(),
		"provider_id":    s.source.ID(),
		"uptime_seconds": int(s.source.Uptime().Seconds()),
		"sinks":          sinks,
		"server": map[string]any{
			"requests":       s.totalRequests.Load(),
			"uptime_seconds": int(time.Since(s.startTime).Seconds()),
		},
	}

	data, _ := json.Marshal(status)
	ctx.SetBody(data)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	var degraded []string
	for _, st := range s.source.Stats() {
		if st.Degraded {
			degraded = append(degraded, st.Type)
		}
	}

	if len(degraded) > 0 {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		data, _ := json.Marshal(map[string]any{
			"status":   "degraded",
			"degraded": degraded,
		})
		ctx.SetBody(data)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString(`{"status":"ok"}`)
}
