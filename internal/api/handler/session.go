package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/akehlen/buzzquiz/internal/api/middleware"
	"github.com/akehlen/buzzquiz/internal/api/request"
	"github.com/akehlen/buzzquiz/internal/api/response"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/lobby"
	"github.com/akehlen/buzzquiz/internal/sse"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	lobbyController *lobby.Controller
	hubManager      *sse.HubManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(lobbyController *lobby.Controller, hubManager *sse.HubManager) *SessionHandler {
	return &SessionHandler{
		lobbyController: lobbyController,
		hubManager:      hubManager,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.HostName == "" {
		WriteError(w, NewInvalidRequestError("host_name is required"))
		return
	}
	if req.QuizID == "" {
		WriteError(w, NewInvalidRequestError("quiz_id is required"))
		return
	}
	if req.MaxPlayers < 1 {
		WriteError(w, NewInvalidRequestError("max_players must be at least 1"))
		return
	}

	userID := middleware.GetUserID(r.Context())

	session, host, err := h.lobbyController.CreateSession(r.Context(),
		req.Name, req.HostName, model.QuizID(req.QuizID), req.MaxPlayers, userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.JoinResponse{
		Session: response.SessionFromModel(session),
		Player:  response.PlayerFromModel(host),
	})
}

// Get handles GET /api/v1/sessions/{session_id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	session, err := h.lobbyController.GetSession(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Join handles POST /api/v1/sessions/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.JoinCode == "" {
		WriteError(w, NewInvalidRequestError("join_code is required"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	userID := middleware.GetUserID(r.Context())

	session, player, err := h.lobbyController.JoinSession(r.Context(),
		model.JoinCode(req.JoinCode), req.Name, userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinResponse{
		Session: response.SessionFromModel(session),
		Player:  response.PlayerFromModel(player),
	})
}

// Leave handles POST /api/v1/sessions/{session_id}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	var req request.PlayerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.lobbyController.LeaveSession(r.Context(), sessionID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/sessions/{session_id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	var req request.PlayerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.lobbyController.StartGame(r.Context(), sessionID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// End handles DELETE /api/v1/sessions/{session_id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.lobbyController.EndSession(r.Context(), sessionID, playerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{session_id}/events
// Streams session events to the client over SSE.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	session, err := h.lobbyController.GetSession(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if session.GetPlayer(playerID) == nil {
		WriteError(w, model.ErrNotInSession)
		return
	}

	hub := h.hubManager.GetOrCreateHub(sessionID)
	sse.ServeSSE(w, r, hub, playerID)
}
