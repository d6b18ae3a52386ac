package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Response is the envelope for all REST responses.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse reports live room and player counts.
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
}

// RoomInfoResponse describes one room to a prospective joiner.
type RoomInfoResponse struct {
	Code        string `json:"code"`
	Mode        string `json:"mode"`
	Phase       string `json:"phase"`
	PlayerCount int    `json:"playerCount"`
	CanJoin     bool   `json:"canJoin"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, http.StatusOK, StatsResponse{
		ActiveRooms:  s.registry.RoomCount(),
		TotalPlayers: s.registry.PlayerCount(),
	})
}

func (s *Server) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	session, err := s.registry.Get(code)
	if err != nil {
		s.sendError(w, http.StatusNotFound, "room not found")
		return
	}

	s.sendSuccess(w, http.StatusOK, RoomInfoResponse{
		Code:        session.Code(),
		Mode:        session.Mode(),
		Phase:       string(session.Phase()),
		PlayerCount: session.PlayerCount(),
		CanJoin:     session.CanJoin(),
	})
}

func (s *Server) sendSuccess(w http.ResponseWriter, status int, data interface{}) {
	s.sendJSON(w, status, Response{Success: true, Data: data})
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, Response{Success: false, Error: message})
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
