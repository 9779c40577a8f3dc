package ws

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/kiryu-dev/dragchess/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type server struct {
	srv      *http.Server
	hub      domain.HubUseCase
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func New(addr string, hub domain.HubUseCase, logger *zap.Logger) *server {
	s := &server{
		srv: &http.Server{Addr: addr},
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // the board page may be served from anywhere
			},
		},
		logger: logger,
	}
	s.srv.Handler = s.routes()
	return s
}

// ListenAndServe blocks until Shutdown. Game sessions inherit ctx, so
// cancelling it ends every running game.
func (s *server) ListenAndServe(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context {
		return ctx
	}
	s.logger.Info("starting listening address: " + s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithMessage(err, "listen and serve")
	}
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/game", s.serveWs)
	mux.HandleFunc("GET /health", s.healthCheck)
	return mux
}
