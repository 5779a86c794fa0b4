package response

import (
	"time"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/auth"
	"github.com/akehlen/buzzquiz/internal/services/quiz"
)

// Account represents a registered account in API responses
type Account struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}

// AuthResponseFromToken creates an AuthResponse from a token
func AuthResponseFromToken(t *auth.Token) AuthResponse {
	return AuthResponse{
		Account: Account{
			UserID:   string(t.UserID),
			Username: t.Username,
		},
		Token: t.Value,
	}
}

// UserStats represents lifetime statistics in API responses
type UserStats struct {
	TotalPoints      int `json:"total_points"`
	QuestionsCorrect int `json:"questions_correct"`
	QuestionsWrong   int `json:"questions_wrong"`
	GamesPlayed      int `json:"games_played"`
	GamesWon         int `json:"games_won"`
}

// UserStatsFromModel converts model.UserStats
func UserStatsFromModel(s *model.UserStats) UserStats {
	return UserStats{
		TotalPoints:      s.TotalPoints,
		QuestionsCorrect: s.QuestionsCorrect,
		QuestionsWrong:   s.QuestionsWrong,
		GamesPlayed:      s.GamesPlayed,
		GamesWon:         s.GamesWon,
	}
}

// Player represents a session participant
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsHost    bool   `json:"is_host"`
	Score     int    `json:"score"`
	TurnOrder int    `json:"turn_order"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        string(p.ID),
		Name:      p.Name,
		IsHost:    p.IsHost,
		Score:     p.Score,
		TurnOrder: p.TurnOrder,
	}
}

// Session represents a session in API responses
type Session struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	JoinCode   string   `json:"join_code"`
	QuizID     string   `json:"quiz_id"`
	MaxPlayers int      `json:"max_players"`
	Status     string   `json:"status"`
	Players    []Player `json:"players"`
}

// SessionFromModel converts model.Session
func SessionFromModel(s *model.Session) Session {
	players := make([]Player, len(s.Players))
	for i := range s.Players {
		players[i] = PlayerFromModel(&s.Players[i])
	}
	return Session{
		ID:         string(s.ID),
		Name:       s.Name,
		JoinCode:   string(s.JoinCode),
		QuizID:     string(s.QuizID),
		MaxPlayers: s.MaxPlayers,
		Status:     string(s.Status),
		Players:    players,
	}
}

// JoinResponse is the response after creating or joining a session
type JoinResponse struct {
	Session Session `json:"session"`
	Player  Player  `json:"player"`
}

// GameState represents the shared game state record
type GameState struct {
	SessionID               string     `json:"session_id"`
	CurrentPlayerID         string     `json:"current_player_id"`
	CurrentQuestionID       string     `json:"current_question_id,omitempty"`
	QuestionStatus          string     `json:"question_status"`
	ActiveAnsweringPlayerID string     `json:"active_answering_player_id,omitempty"`
	ActiveBoard             int        `json:"active_board"`
	BuzzWindowStartedAt     *time.Time `json:"buzz_window_started_at,omitempty"`
	ResultsEmitted          bool       `json:"results_emitted"`
}

// GameStateFromModel converts model.GameState
func GameStateFromModel(gs *model.GameState) GameState {
	var windowStart *time.Time
	if !gs.BuzzWindowStartedAt.IsZero() {
		t := gs.BuzzWindowStartedAt
		windowStart = &t
	}
	return GameState{
		SessionID:               string(gs.SessionID),
		CurrentPlayerID:         string(gs.CurrentPlayerID),
		CurrentQuestionID:       string(gs.CurrentQuestionID),
		QuestionStatus:          string(gs.QuestionStatus),
		ActiveAnsweringPlayerID: string(gs.ActiveAnsweringPlayerID),
		ActiveBoard:             gs.ActiveBoard,
		BuzzWindowStartedAt:     windowStart,
		ResultsEmitted:          gs.ResultsEmitted,
	}
}

// Quiz represents a quiz in API responses
type Quiz struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuizFromModel converts model.Quiz
func QuizFromModel(q *model.Quiz) Quiz {
	return Quiz{ID: string(q.ID), Name: q.Name}
}

// Category represents a category in API responses
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Board    int    `json:"board"`
}

// CategoryFromModel converts model.Category
func CategoryFromModel(c *model.Category) Category {
	return Category{
		ID:       string(c.ID),
		Name:     c.Name,
		Position: c.Position,
		Board:    c.Board,
	}
}

// Question represents a board cell. The answer is only populated for the
// host; Points carries the displayed (multiplied) value.
type Question struct {
	ID       string `json:"id"`
	Points   int    `json:"points"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	ImageRef string `json:"image_ref,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Used     bool   `json:"used"`
}

// QuestionFromModel converts model.Question. The board multiplier is
// applied to the displayed points; revealAnswer controls whether the
// answer text is included.
func QuestionFromModel(q *model.Question, multiplier int, used, revealAnswer bool) Question {
	resp := Question{
		ID:       string(q.ID),
		Points:   q.Points * multiplier,
		Text:     q.Text,
		Type:     string(q.Type),
		ImageRef: q.ImageRef,
		Used:     used,
	}
	if revealAnswer {
		resp.Answer = q.Answer
	}
	return resp
}

// BoardColumn is a category with its questions in point order
type BoardColumn struct {
	Category  Category   `json:"category"`
	Questions []Question `json:"questions"`
}

// Board represents a full board layout
type Board struct {
	Board   int           `json:"board"`
	Columns []BoardColumn `json:"columns"`
}

// BoardFromColumns converts the quiz service's board layout, applying
// the board multiplier and usage/reveal flags per question
func BoardFromColumns(board int, columns []quiz.BoardColumn, multiplier int, used map[model.QuestionID]bool, revealAnswers bool) Board {
	cols := make([]BoardColumn, len(columns))
	for i, col := range columns {
		questions := make([]Question, len(col.Questions))
		for j, q := range col.Questions {
			questions[j] = QuestionFromModel(q, multiplier, used[q.ID], revealAnswers)
		}
		cols[i] = BoardColumn{
			Category:  CategoryFromModel(col.Category),
			Questions: questions,
		}
	}
	return Board{Board: board, Columns: cols}
}

// PlayerResult is one row of the final ranking
type PlayerResult struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	FinalScore int    `json:"final_score"`
	IsWinner   bool   `json:"is_winner"`
	Rank       int    `json:"rank"`
}

// ResultsResponse is the final ranking of a finished session
type ResultsResponse struct {
	Ranking []PlayerResult `json:"ranking"`
}

// ResultsFromModel converts a ranking
func ResultsFromModel(ranking []model.PlayerResult) ResultsResponse {
	rows := make([]PlayerResult, len(ranking))
	for i, r := range ranking {
		rows[i] = PlayerResult{
			PlayerID:   string(r.PlayerID),
			Name:       r.Name,
			FinalScore: r.FinalScore,
			IsWinner:   r.IsWinner,
			Rank:       r.Rank,
		}
	}
	return ResultsResponse{Ranking: rows}
}
