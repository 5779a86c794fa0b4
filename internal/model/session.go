package model

import (
	"sort"
	"time"
)

// SessionID uniquely identifies a game session
type SessionID string

// JoinCode is a human-readable identifier for joining sessions
type JoinCode string

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	SessionStatusWaiting  SessionStatus = "waiting"  // Lobby open, collecting players
	SessionStatusRunning  SessionStatus = "running"  // Game in progress
	SessionStatusFinished SessionStatus = "finished" // Game over, results emitted
)

// Session represents a single game: one host, several contestants,
// a quiz and the shared game state record
type Session struct {
	ID         SessionID
	Name       string
	JoinCode   JoinCode
	QuizID     QuizID
	MaxPlayers int // contestant slots; the host does not count
	Status     SessionStatus
	Players    []Player
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Host returns the session's host player, or nil if none
func (s *Session) Host() *Player {
	for i := range s.Players {
		if s.Players[i].IsHost {
			return &s.Players[i]
		}
	}
	return nil
}

// GetPlayer returns the player with the given ID, or nil if not found
func (s *Session) GetPlayer(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// Contestants returns all non-host players ordered by turn order
func (s *Session) Contestants() []Player {
	var contestants []Player
	for _, p := range s.Players {
		if !p.IsHost {
			contestants = append(contestants, p)
		}
	}
	sort.SliceStable(contestants, func(i, j int) bool {
		return contestants[i].TurnOrder < contestants[j].TurnOrder
	})
	return contestants
}

// IsFull returns true if all contestant slots are taken
func (s *Session) IsFull() bool {
	return len(s.Contestants()) >= s.MaxPlayers
}
