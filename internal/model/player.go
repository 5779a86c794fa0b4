package model

import "time"

// PlayerID uniquely identifies a player within a session
type PlayerID string

// UserID identifies a registered account; empty for guests
type UserID string

// Player represents a participant in a session.
// Score is a signed integer with no floor; negative scores are valid.
// TurnOrder is unique and contiguous from 0 among non-host players and
// compacted when a player permanently leaves. The host is excluded from
// turn rotation and ranking.
type Player struct {
	ID        PlayerID
	Name      string
	IsHost    bool
	Score     int
	TurnOrder int
	UserID    UserID // optional account tag; not required for gameplay
	Connected bool
	JoinedAt  time.Time
}

// Account holds authentication data for a registered user.
// Stored separately from session players.
type Account struct {
	UserID       UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStats accumulates lifetime statistics for a registered user
type UserStats struct {
	UserID           UserID
	TotalPoints      int
	QuestionsCorrect int
	QuestionsWrong   int
	GamesPlayed      int
	GamesWon         int
}
