package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pocketduel/duel-server-go/internal/auth"
	"github.com/pocketduel/duel-server-go/internal/config"
	"github.com/pocketduel/duel-server-go/internal/game"
	"github.com/pocketduel/duel-server-go/internal/notify"
	"github.com/pocketduel/duel-server-go/internal/user"
	"go.uber.org/zap"
)

// Server is the HTTP/WebSocket front of the match engine: action submission,
// masked state reads, match lifecycle, and change-notification fan-out.
type Server struct {
	cfg      config.ServerConfig
	engine   *game.Engine
	hub      *notify.Hub
	tokens   *auth.TokenStore
	users    *user.Manager
	upgrader websocket.Upgrader
	logger   *zap.Logger

	httpServer *http.Server
}

// New creates a server over the engine and its collaborators.
func New(cfg config.ServerConfig, engine *game.Engine, hub *notify.Hub, tokens *auth.TokenStore, users *user.Manager, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		hub:    hub,
		tokens: tokens,
		users:  users,
		logger: logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/matches", s.authenticated(s.handleListOpenMatches))
	mux.HandleFunc("POST /api/matches", s.authenticated(s.handleCreateMatch))
	mux.HandleFunc("POST /api/matches/{matchId}/join", s.authenticated(s.handleJoinMatch))
	mux.HandleFunc("GET /api/matches/{matchId}", s.authenticated(s.handleGetMatch))
	mux.HandleFunc("POST /api/matches/{matchId}/actions", s.authenticated(s.handleSubmitAction))
	mux.HandleFunc("GET /api/matches/{matchId}/log", s.authenticated(s.handleMatchLog))

	mux.HandleFunc("GET /ws/matches/{matchId}", s.authenticated(s.handleSubscribe))

	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           chainMiddleware(mux, s.recoveryMiddleware, s.loggingMiddleware),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start serves HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("address", s.cfg.HTTPAddress))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
