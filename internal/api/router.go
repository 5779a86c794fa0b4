package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/akehlen/buzzquiz/internal/api/handler"
	"github.com/akehlen/buzzquiz/internal/api/middleware"
	"github.com/akehlen/buzzquiz/internal/services/auth"
	"github.com/akehlen/buzzquiz/internal/services/game"
	"github.com/akehlen/buzzquiz/internal/services/lobby"
	"github.com/akehlen/buzzquiz/internal/services/quiz"
	"github.com/akehlen/buzzquiz/internal/services/stats"
	"github.com/akehlen/buzzquiz/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	StatsService    *stats.Service
	QuizService     *quiz.Service
	LobbyController *lobby.Controller
	GameController  *game.Controller
	HubManager      *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService, cfg.StatsService)
	quizHandler := handler.NewQuizHandler(cfg.QuizService)
	sessionHandler := handler.NewSessionHandler(cfg.LobbyController, cfg.HubManager)
	gameHandler := handler.NewGameHandler(cfg.LobbyController, cfg.GameController, cfg.QuizService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (registration is optional; guests play untagged)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	accountProtected := api.PathPrefix("/accounts").Subrouter()
	accountProtected.Use(authMiddleware)
	accountProtected.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)
	accountProtected.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)
	accountProtected.HandleFunc("/me/stats", accountHandler.GetMyStats).Methods(http.MethodGet)

	// Quiz authoring routes
	api.HandleFunc("/quizzes", quizHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/quizzes", quizHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{quiz_id}", quizHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{quiz_id}/categories", quizHandler.AddCategory).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/{quiz_id}/questions", quizHandler.AddQuestion).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/{quiz_id}/boards/{board}", quizHandler.GetBoard).Methods(http.MethodGet)

	// Session lifecycle routes. Auth is optional: a token only tags the
	// player for lifetime stats.
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(optionalAuthMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{session_id}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{session_id}/leave", sessionHandler.Leave).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/start", sessionHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/events", sessionHandler.Events).Methods(http.MethodGet)

	// In-game routes
	sessions.HandleFunc("/{session_id}/state", gameHandler.GetState).Methods(http.MethodGet)
	sessions.HandleFunc("/{session_id}/board", gameHandler.GetBoard).Methods(http.MethodGet)
	sessions.HandleFunc("/{session_id}/question", gameHandler.SelectQuestion).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/buzz", gameHandler.Buzz).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/judge", gameHandler.Judge).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/skip", gameHandler.Skip).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/buzzer", gameHandler.SelectBuzzer).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/window/resolve", gameHandler.ResolveWindow).Methods(http.MethodPost)
	sessions.HandleFunc("/{session_id}/results", gameHandler.Results).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
