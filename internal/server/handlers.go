package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketduel/duel-server-go/internal/game"
	"github.com/pocketduel/duel-server-go/internal/user"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotActive):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrWrongTurn), errors.Is(err, game.ErrNotParticipant):
		writeError(w, http.StatusForbidden, err.Error())
	case game.IsIllegalAction(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, game.ErrConcurrencyConflict):
		// Transient: the client may retry the whole submission.
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, UserID: u.ID, Username: u.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, UserID: u.ID, Username: u.Username})
}

type createMatchRequest struct {
	Deck []string `json:"deck"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := s.engine.CreateMatch(r.Context(), identity.UserID, identity.Username, req.Deck)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, game.ViewForPlayer(row, identity.UserID))
}

func (s *Server) handleJoinMatch(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	matchID := r.PathValue("matchId")

	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := s.engine.JoinMatch(r.Context(), matchID, identity.UserID, identity.Username, req.Deck)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, game.ViewForPlayer(row, identity.UserID))
}

func (s *Server) handleListOpenMatches(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	rows, err := s.engine.ListOpenMatches(r.Context())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	views := make([]*game.MatchView, 0, len(rows))
	for _, row := range rows {
		views = append(views, game.ViewForPlayer(row, identity.UserID))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	matchID := r.PathValue("matchId")

	row, err := s.engine.GetMatch(r.Context(), matchID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, game.ViewForPlayer(row, identity.UserID))
}

type submitActionRequest struct {
	Action game.Action `json:"action"`
}

type submitActionResponse struct {
	Success bool            `json:"success"`
	State   *game.StateView `json:"state,omitempty"`
}

// handleSubmitAction is the single mutation endpoint. The acting player is
// the verified token subject; the payload only carries the action itself.
func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	matchID := r.PathValue("matchId")

	var req submitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.engine.SubmitAction(r.Context(), matchID, identity.UserID, req.Action); err != nil {
		s.writeEngineError(w, err)
		return
	}

	// Re-read through the masking boundary rather than exposing the raw
	// state returned by the engine.
	row, err := s.engine.GetMatch(r.Context(), matchID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	view := game.ViewForPlayer(row, identity.UserID)

	writeJSON(w, http.StatusOK, submitActionResponse{Success: true, State: view.State})
}

func (s *Server) handleMatchLog(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchId")

	entries, err := s.engine.MatchLog(r.Context(), matchID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
