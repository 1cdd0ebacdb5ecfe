package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/starsettlers/settlers-server-go/internal/game"
)

type createGameRequest struct {
	Players     []string `json:"players"`
	Computers   int      `json:"computers"`
	PointsToWin int      `json:"pointsToWin"`
}

type createGameResponse struct {
	GameID string `json:"gameid"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request: " + err.Error()})
		return
	}

	id, err := s.manager.CreateGame(r.Context(), game.NewGame{
		Players:     req.Players,
		Computers:   req.Computers,
		PointsToWin: req.PointsToWin,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, game.ErrManagerClosed) {
			status = http.StatusServiceUnavailable
		}
		s.writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusCreated, createGameResponse{GameID: id})
}

func (s *Server) listGames(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.manager.Games())
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.manager.Snapshot(r.PathValue("id"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("failed to write response", zap.Error(err))
	}
}
