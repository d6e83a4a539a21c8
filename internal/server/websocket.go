package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pocketduel/duel-server-go/internal/game"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// handleSubscribe upgrades the connection and streams masked match snapshots
// to the caller until either side disconnects. The first frame is the current
// state; every subsequent frame is a full snapshot pushed on change.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	matchID := r.PathValue("matchId")

	row, err := s.engine.GetMatch(r.Context(), matchID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			zap.String("match_id", matchID),
			zap.Error(err),
		)
		return
	}

	sub := s.hub.Subscribe(matchID)
	defer sub.Cancel()
	defer conn.Close()

	s.logger.Info("subscriber connected",
		zap.String("match_id", matchID),
		zap.String("user_id", identity.UserID),
	)

	// Reader goroutine: consumes pongs and detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.writeSnapshot(conn, row, identity.UserID); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case updated, ok := <-sub.Updates():
			if !ok {
				return
			}
			if err := s.writeSnapshot(conn, updated, identity.UserID); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn, row *game.MatchRow, viewerID string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(game.ViewForPlayer(row, viewerID))
}
