package handler

import (
	"encoding/json"
	"net/http"

	"github.com/akehlen/buzzquiz/internal/api/middleware"
	"github.com/akehlen/buzzquiz/internal/api/request"
	"github.com/akehlen/buzzquiz/internal/api/response"
	"github.com/akehlen/buzzquiz/internal/services/auth"
	"github.com/akehlen/buzzquiz/internal/services/stats"
)

// AccountHandler handles account and stats endpoints
type AccountHandler struct {
	authService  *auth.Service
	statsService *stats.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service, statsService *stats.Service) *AccountHandler {
	return &AccountHandler{
		authService:  authService,
		statsService: statsService,
	}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	token, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromToken(token))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromToken(token))
}

// Logout handles POST /api/v1/accounts/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.MustGetToken(r.Context())
	h.authService.Invalidate(token.Value)
	response.NoContent(w)
}

// GetMe handles GET /api/v1/accounts/me
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	token := middleware.MustGetToken(r.Context())
	response.JSON(w, http.StatusOK, response.Account{
		UserID:   string(token.UserID),
		Username: token.Username,
	})
}

// GetMyStats handles GET /api/v1/accounts/me/stats
func (h *AccountHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	token := middleware.MustGetToken(r.Context())

	userStats, err := h.statsService.GetStats(r.Context(), token.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserStatsFromModel(userStats))
}
