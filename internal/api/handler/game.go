package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/akehlen/buzzquiz/internal/api/request"
	"github.com/akehlen/buzzquiz/internal/api/response"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/game"
	"github.com/akehlen/buzzquiz/internal/services/lobby"
	"github.com/akehlen/buzzquiz/internal/services/quiz"
	"github.com/akehlen/buzzquiz/internal/services/scoring"
)

// GameHandler handles in-game endpoints
type GameHandler struct {
	lobbyController *lobby.Controller
	gameController  *game.Controller
	quizService     *quiz.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(lobbyController *lobby.Controller, gameController *game.Controller, quizService *quiz.Service) *GameHandler {
	return &GameHandler{
		lobbyController: lobbyController,
		gameController:  gameController,
		quizService:     quizService,
	}
}

// GetState handles GET /api/v1/sessions/{session_id}/state
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	gs, err := h.gameController.GetState(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(gs))
}

// GetBoard handles GET /api/v1/sessions/{session_id}/board
// Returns the active board with used-question markers. Answer text is
// only included for the host.
func (h *GameHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))

	session, err := h.lobbyController.GetSession(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	gs, err := h.gameController.GetState(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	columns, err := h.quizService.GetBoard(r.Context(), session.QuizID, gs.ActiveBoard)
	if err != nil {
		WriteError(w, err)
		return
	}

	used, err := h.gameController.UsedQuestions(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	caller := session.GetPlayer(playerID)
	revealAnswers := caller != nil && caller.IsHost

	resp := response.BoardFromColumns(gs.ActiveBoard, columns,
		scoring.Multiplier(gs.ActiveBoard), used, revealAnswers)
	response.JSON(w, http.StatusOK, resp)
}

// SelectQuestion handles POST /api/v1/sessions/{session_id}/question
func (h *GameHandler) SelectQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	var req request.SelectQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" || req.QuestionID == "" {
		WriteError(w, NewInvalidRequestError("player_id and question_id are required"))
		return
	}

	err := h.gameController.SelectQuestion(r.Context(), sessionID,
		model.PlayerID(req.PlayerID), model.QuestionID(req.QuestionID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Buzz handles POST /api/v1/sessions/{session_id}/buzz
func (h *GameHandler) Buzz(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	var req request.BuzzRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" || req.QuestionID == "" {
		WriteError(w, NewInvalidRequestError("player_id and question_id are required"))
		return
	}

	err := h.gameController.SubmitBuzz(r.Context(), sessionID,
		model.PlayerID(req.PlayerID), model.QuestionID(req.QuestionID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Judge handles POST /api/v1/sessions/{session_id}/judge
func (h *GameHandler) Judge(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	var req request.JudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	var err error
	if req.Correct {
		err = h.gameController.MarkCorrect(r.Context(), sessionID, model.PlayerID(req.PlayerID))
	} else {
		err = h.gameController.MarkWrong(r.Context(), sessionID, model.PlayerID(req.PlayerID))
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Skip handles POST /api/v1/sessions/{session_id}/skip
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
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

	if err := h.gameController.SkipQuestion(r.Context(), sessionID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SelectBuzzer handles POST /api/v1/sessions/{session_id}/buzzer
func (h *GameHandler) SelectBuzzer(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	var req request.SelectBuzzerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" || req.TargetPlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id and target_player_id are required"))
		return
	}

	err := h.gameController.SelectBuzzer(r.Context(), sessionID,
		model.PlayerID(req.PlayerID), model.PlayerID(req.TargetPlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ResolveWindow handles POST /api/v1/sessions/{session_id}/window/resolve
// Called by the host's client when its countdown hits zero. Safe to call
// repeatedly; stale calls are silent no-ops.
func (h *GameHandler) ResolveWindow(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	if err := h.gameController.ResolveExpiredWindow(r.Context(), sessionID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Results handles GET /api/v1/sessions/{session_id}/results
func (h *GameHandler) Results(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["session_id"])

	ranking, err := h.gameController.GetResults(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultsFromModel(ranking))
}
