package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateQuizRequest is the request body for creating a quiz
type CreateQuizRequest struct {
	Name string `json:"name"`
}

// AddCategoryRequest is the request body for adding a category to a quiz
type AddCategoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Board    int    `json:"board"`
}

// AddQuestionRequest is the request body for adding a question
type AddQuestionRequest struct {
	CategoryID string `json:"category_id"`
	Points     int    `json:"points"`
	Text       string `json:"text"`
	Answer     string `json:"answer"`
	Type       string `json:"type,omitempty"`
	ImageRef   string `json:"image_ref,omitempty"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name       string `json:"name"`
	HostName   string `json:"host_name"`
	QuizID     string `json:"quiz_id"`
	MaxPlayers int    `json:"max_players"`
}

// JoinSessionRequest is the request body for joining a session by code
type JoinSessionRequest struct {
	JoinCode string `json:"join_code"`
	Name     string `json:"name"`
}

// PlayerActionRequest identifies the acting player for session actions
type PlayerActionRequest struct {
	PlayerID string `json:"player_id"`
}

// SelectQuestionRequest is the request body for the host opening a question
type SelectQuestionRequest struct {
	PlayerID   string `json:"player_id"`
	QuestionID string `json:"question_id"`
}

// BuzzRequest is the request body for a contestant buzzing in
type BuzzRequest struct {
	PlayerID   string `json:"player_id"`
	QuestionID string `json:"question_id"`
}

// JudgeRequest is the request body for the host judging an answer
type JudgeRequest struct {
	PlayerID string `json:"player_id"`
	Correct  bool   `json:"correct"`
}

// SelectBuzzerRequest is the request body for the host hand-picking a
// queued buzzer
type SelectBuzzerRequest struct {
	PlayerID       string `json:"player_id"`
	TargetPlayerID string `json:"target_player_id"`
}
