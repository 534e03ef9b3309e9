package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tooza/internal/domain"
	"tooza/internal/room"
)

// Server is the HTTP/WebSocket port in front of the room manager.
type Server struct {
	mux     *http.ServeMux
	manager *room.Manager
}

// New creates a server with all routes.
func New(manager *room.Manager) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		manager: manager,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/create-room", s.handleCreateRoom)
	s.mux.HandleFunc("POST /api/join-room", s.handleJoinRoom)
	s.mux.HandleFunc("GET /{code}/ws", s.handleWebSocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, createRoomResponse{Error: "invalid request body"})
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" {
		writeJSON(w, http.StatusBadRequest, createRoomResponse{Error: "playerName required"})
		return
	}

	code, playerID, err := s.manager.CreateRoom(r.Context(), req.PlayerName, req.Avatar, req.AIPlayers)
	if err != nil {
		writeJSON(w, statusFor(err), createRoomResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, createRoomResponse{
		Success:  true,
		RoomCode: code,
		PlayerID: playerID,
	})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, joinRoomResponse{Error: "invalid request body"})
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	req.RoomCode = strings.ToUpper(strings.TrimSpace(req.RoomCode))
	if req.PlayerName == "" || req.RoomCode == "" {
		writeJSON(w, http.StatusBadRequest, joinRoomResponse{Error: "playerName and roomCode required"})
		return
	}

	playerID, err := s.manager.JoinRoom(r.Context(), req.RoomCode, req.PlayerName, req.Avatar)
	if err != nil {
		writeJSON(w, statusFor(err), joinRoomResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, joinRoomResponse{Success: true, PlayerID: playerID})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrInvalidPhase):
		return http.StatusConflict
	case errors.Is(err, room.ErrRoomClosed):
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
