package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Session events
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventGameStarted  EventType = "game_started"
	EventSessionEnded EventType = "session_ended"

	// Question lifecycle events
	EventQuestionSelected EventType = "question_selected"
	EventBuzzAccepted     EventType = "buzz_accepted"
	EventBuzzerSelected   EventType = "buzzer_selected"
	EventAnswerJudged     EventType = "answer_judged"
	EventQuestionSkipped  EventType = "question_skipped"
	EventWindowExpired    EventType = "window_expired"

	// Progression events
	EventBoardAdvanced EventType = "board_advanced"
	EventGameOver      EventType = "game_over"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID SessionID
	PlayerID  PlayerID // The player who triggered or is affected; empty for session-wide events
	Payload   any      // Type-specific data
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Player Player
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	PlayerID PlayerID
	Name     string
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	QuizID          QuizID
	CurrentPlayerID PlayerID
}

// QuestionSelectedPayload contains data for question selected events
type QuestionSelectedPayload struct {
	QuestionID QuestionID
	Points     int
	Board      int
}

// BuzzAcceptedPayload contains data for buzz accepted events
type BuzzAcceptedPayload struct {
	QuestionID   QuestionID
	ArrivalOrder int
}

// AnswerJudgedPayload contains data for answer judged events
type AnswerJudgedPayload struct {
	QuestionID  QuestionID
	Correct     bool
	PointsDelta int
	NewScore    int
}

// BoardAdvancedPayload contains data for board advanced events
type BoardAdvancedPayload struct {
	ActiveBoard int
}

// GameOverPayload contains data for game over events
type GameOverPayload struct {
	Ranking []PlayerResult
}
