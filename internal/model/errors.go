package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFull        = errors.New("session is full")
	ErrAlreadyInSession   = errors.New("player is already in session")
	ErrNotInSession       = errors.New("player is not in session")
	ErrNotHost            = errors.New("player is not the host")
	ErrSessionNotWaiting  = errors.New("session is not accepting players")
	ErrSessionNotRunning  = errors.New("session is not running")
	ErrNoContestants      = errors.New("no contestants in session")

	// Quiz content errors
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidBoard      = errors.New("board must be 1 or 2")
	ErrInvalidPoints     = errors.New("points must be one of the base values")
	ErrTooManyCategories = errors.New("board already has the maximum number of categories")
	ErrMissingImageRef   = errors.New("image questions require an image reference")

	// Game state errors
	ErrGameStateNotFound = errors.New("game state not found")
	ErrBuzzRejected      = errors.New("buzz not accepted")
	ErrAlreadyBuzzed     = errors.New("player has already buzzed for this question")

	// Results errors
	ErrResultsNotFound = errors.New("results not found")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrStatsNotFound   = errors.New("stats not found")
)
