package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case UserStats:
		o.printUserStats(v)
	case Session:
		o.printSession(v)
	case JoinResult:
		o.printJoinResult(v)
	case GameState:
		o.printGameState(v)
	case Quiz:
		o.printQuiz(v)
	case QuizList:
		o.printQuizList(v)
	case Board:
		o.printBoard(v)
	case Question:
		o.printQuestion(v)
	case Results:
		o.printResults(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}

// UserStats response type
type UserStats struct {
	TotalPoints      int `json:"total_points"`
	QuestionsCorrect int `json:"questions_correct"`
	QuestionsWrong   int `json:"questions_wrong"`
	GamesPlayed      int `json:"games_played"`
	GamesWon         int `json:"games_won"`
}

// Player response type
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsHost    bool   `json:"is_host"`
	Score     int    `json:"score"`
	TurnOrder int    `json:"turn_order"`
}

// Session response type
type Session struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	JoinCode   string   `json:"join_code"`
	QuizID     string   `json:"quiz_id"`
	MaxPlayers int      `json:"max_players"`
	Status     string   `json:"status"`
	Players    []Player `json:"players"`
}

// JoinResult response type
type JoinResult struct {
	Session Session `json:"session"`
	Player  Player  `json:"player"`
}

// GameState response type
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

// Quiz response type
type Quiz struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuizList response type
type QuizList struct {
	Quizzes []Quiz `json:"quizzes"`
}

// Question response type
type Question struct {
	ID       string `json:"id"`
	Points   int    `json:"points"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	ImageRef string `json:"image_ref,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Used     bool   `json:"used"`
}

// Category response type
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Board    int    `json:"board"`
}

// BoardColumn response type
type BoardColumn struct {
	Category  Category   `json:"category"`
	Questions []Question `json:"questions"`
}

// Board response type
type Board struct {
	Board   int           `json:"board"`
	Columns []BoardColumn `json:"columns"`
}

// PlayerResult response type
type PlayerResult struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	FinalScore int    `json:"final_score"`
	IsWinner   bool   `json:"is_winner"`
	Rank       int    `json:"rank"`
}

// Results response type
type Results struct {
	Ranking []PlayerResult `json:"ranking"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	fmt.Printf("Account: %s (%s)\n", a.Username, a.UserID)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printUserStats(s UserStats) {
	fmt.Printf("Total Points: %d\n", s.TotalPoints)
	fmt.Printf("Correct Answers: %d\n", s.QuestionsCorrect)
	fmt.Printf("Wrong Answers: %d\n", s.QuestionsWrong)
	fmt.Printf("Games Played: %d\n", s.GamesPlayed)
	fmt.Printf("Games Won: %d\n", s.GamesWon)
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s (%s)\n", s.Name, s.ID)
	fmt.Printf("Join Code: %s\n", s.JoinCode)
	fmt.Printf("Quiz: %s\n", s.QuizID)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Players (%d/%d):\n", len(s.Players), s.MaxPlayers)

	players := make([]Player, len(s.Players))
	copy(players, s.Players)
	sort.Slice(players, func(i, j int) bool {
		return players[i].TurnOrder < players[j].TurnOrder
	})

	for _, p := range players {
		hostStr := ""
		if p.IsHost {
			hostStr = " [host]"
		}
		fmt.Printf("  - %s (%s) - %d points%s\n", p.Name, p.ID, p.Score, hostStr)
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined as: %s (%s)\n", j.Player.Name, j.Player.ID)
	fmt.Println()
	o.printSession(j.Session)
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Session: %s\n", g.SessionID)
	fmt.Printf("Board: %d\n", g.ActiveBoard)
	fmt.Printf("Question Status: %s\n", g.QuestionStatus)
	if g.CurrentPlayerID != "" {
		fmt.Printf("Current Turn: %s\n", g.CurrentPlayerID)
	}
	if g.CurrentQuestionID != "" {
		fmt.Printf("Current Question: %s\n", g.CurrentQuestionID)
	}
	if g.ActiveAnsweringPlayerID != "" {
		fmt.Printf("Answering: %s\n", g.ActiveAnsweringPlayerID)
	}
	if g.BuzzWindowStartedAt != nil {
		fmt.Printf("Buzz Window Opened: %s\n", g.BuzzWindowStartedAt.Format(time.RFC3339))
	}
}

func (o *Output) printQuiz(q Quiz) {
	fmt.Printf("Quiz: %s (%s)\n", q.Name, q.ID)
}

func (o *Output) printQuizList(l QuizList) {
	fmt.Printf("Quizzes (%d):\n", len(l.Quizzes))
	for _, q := range l.Quizzes {
		fmt.Printf("  - %s (%s)\n", q.Name, q.ID)
	}
}

func (o *Output) printQuestion(q Question) {
	usedStr := ""
	if q.Used {
		usedStr = " [used]"
	}
	fmt.Printf("Question: %s (%s)%s\n", q.ID, q.Type, usedStr)
	fmt.Printf("Points: %d\n", q.Points)
	fmt.Printf("Text: %s\n", q.Text)
	if q.ImageRef != "" {
		fmt.Printf("Image: %s\n", q.ImageRef)
	}
	if q.Answer != "" {
		fmt.Printf("Answer: %s\n", q.Answer)
	}
}

func (o *Output) printBoard(b Board) {
	fmt.Printf("Board %d:\n", b.Board)
	for _, col := range b.Columns {
		fmt.Printf("\n%s:\n", col.Category.Name)
		for _, q := range col.Questions {
			marker := " "
			if q.Used {
				marker = "x"
			}
			fmt.Printf("  [%s] %4d  %s\n", marker, q.Points, q.ID)
		}
	}
}

func (o *Output) printResults(r Results) {
	fmt.Println("Final Ranking:")
	for _, p := range r.Ranking {
		winStr := ""
		if p.IsWinner {
			winStr = " [winner]"
		}
		fmt.Printf("  %d. %s - %d points%s\n", p.Rank, p.Name, p.FinalScore, winStr)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
