// Package gateway serves the portal HTTP and WebSocket surface.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vigtec/agentportal/internal/agent"
	"github.com/vigtec/agentportal/internal/catalog"
	"github.com/vigtec/agentportal/internal/config"
	"github.com/vigtec/agentportal/internal/logging"
	"github.com/vigtec/agentportal/internal/store"
	"github.com/vigtec/agentportal/internal/version"
)

// Server is the portal HTTP + WebSocket server.
type Server struct {
	cfg         config.PortalConfig
	log         *logging.Logger
	registry    *agent.ConfigRegistry
	catalog     *catalog.Catalog
	directory   *catalog.ConnectionDirectory
	bridge      *agent.Bridge
	transcripts *store.TranscriptStore // nil when the store is disabled
	model       string

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// Deps bundles the collaborators the server exposes over HTTP.
type Deps struct {
	Registry    *agent.ConfigRegistry
	Catalog     *catalog.Catalog
	Directory   *catalog.ConnectionDirectory
	Bridge      *agent.Bridge
	Transcripts *store.TranscriptStore

	// Model is the deployment new agents are created against.
	Model string
}

// NewServer creates a portal server.
func NewServer(cfg config.PortalConfig, deps Deps, log *logging.Logger) *Server {
	return &Server{
		cfg:         cfg,
		log:         log.Sub("gateway"),
		registry:    deps.Registry,
		catalog:     deps.Catalog,
		directory:   deps.Directory,
		bridge:      deps.Bridge,
		transcripts: deps.Transcripts,
		model:       deps.Model,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.bindHost(), strconv.Itoa(s.cfg.Port))

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           withMiddleware(mux, s.cfg.Auth.Token, s.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("portal server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("portal server: %w", err)
	case <-ctx.Done():
		s.log.Info().Msg("shutting down portal server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) bindHost() string {
	switch s.cfg.Bind {
	case "lan":
		return "0.0.0.0"
	case "custom":
		return s.cfg.CustomHost
	default:
		return "127.0.0.1"
	}
}

// writeJSON serializes a response body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes the standard error shape. Failures surface as
// human-readable text, never as stack traces.
func writeJSONError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
