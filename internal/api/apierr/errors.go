package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotHost            = "NOT_HOST"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionFull        = "SESSION_FULL"
	CodeAlreadyInSession   = "ALREADY_IN_SESSION"
	CodeNotInSession       = "NOT_IN_SESSION"
	CodeSessionNotWaiting  = "SESSION_NOT_WAITING"
	CodeSessionNotRunning  = "SESSION_NOT_RUNNING"
	CodeNoContestants      = "NO_CONTESTANTS"
	CodeQuizNotFound       = "QUIZ_NOT_FOUND"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeQuestionNotFound   = "QUESTION_NOT_FOUND"
	CodeInvalidBoard       = "INVALID_BOARD"
	CodeInvalidPoints      = "INVALID_POINTS"
	CodeTooManyCategories  = "TOO_MANY_CATEGORIES"
	CodeMissingImageRef    = "MISSING_IMAGE_REF"
	CodeGameStateNotFound  = "GAME_STATE_NOT_FOUND"
	CodeBuzzRejected       = "BUZZ_REJECTED"
	CodeAlreadyBuzzed      = "ALREADY_BUZZED"
	CodeResultsNotFound    = "RESULTS_NOT_FOUND"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeStatsNotFound      = "STATS_NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{CodeSessionFull, "Session is full"}}
	case errors.Is(err, model.ErrAlreadyInSession):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInSession, "Already in this session"}}
	case errors.Is(err, model.ErrNotInSession):
		return &httpError{http.StatusNotFound, APIError{CodeNotInSession, "Not in this session"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrSessionNotWaiting):
		return &httpError{http.StatusConflict, APIError{CodeSessionNotWaiting, "Session is no longer accepting players"}}
	case errors.Is(err, model.ErrSessionNotRunning):
		return &httpError{http.StatusConflict, APIError{CodeSessionNotRunning, "Session is not running"}}
	case errors.Is(err, model.ErrNoContestants):
		return &httpError{http.StatusConflict, APIError{CodeNoContestants, "Need at least one contestant to start"}}
	case errors.Is(err, model.ErrQuizNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeQuizNotFound, "Quiz not found"}}
	case errors.Is(err, model.ErrCategoryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCategoryNotFound, "Category not found"}}
	case errors.Is(err, model.ErrQuestionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeQuestionNotFound, "Question not found"}}
	case errors.Is(err, model.ErrInvalidBoard):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBoard, "Board must be 1 or 2"}}
	case errors.Is(err, model.ErrInvalidPoints):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPoints, "Points must be 100, 200, 300 or 500"}}
	case errors.Is(err, model.ErrTooManyCategories):
		return &httpError{http.StatusConflict, APIError{CodeTooManyCategories, "Board already has the maximum number of categories"}}
	case errors.Is(err, model.ErrMissingImageRef):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingImageRef, "Image questions require an image reference"}}
	case errors.Is(err, model.ErrGameStateNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameStateNotFound, "Game state not found"}}
	case errors.Is(err, model.ErrBuzzRejected):
		return &httpError{http.StatusConflict, APIError{CodeBuzzRejected, "Buzz not accepted"}}
	case errors.Is(err, model.ErrAlreadyBuzzed):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyBuzzed, "Already buzzed for this question"}}
	case errors.Is(err, model.ErrResultsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeResultsNotFound, "Results not available"}}
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}
	case errors.Is(err, model.ErrStatsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeStatsNotFound, "No stats recorded for this account"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
