package model

import "time"

// QuizID uniquely identifies a quiz
type QuizID string

// CategoryID uniquely identifies a category
type CategoryID string

// QuestionID uniquely identifies a question
type QuestionID string

// QuestionType distinguishes plain text questions from image questions
type QuestionType string

const (
	QuestionTypeText  QuestionType = "text"
	QuestionTypeImage QuestionType = "image"
)

// Board numbers; board 2 is optional and doubles point values on display
// and scoring, never in storage
const (
	BoardOne = 1
	BoardTwo = 2
)

// MaxCategoriesPerBoard caps the number of active categories per board
const MaxCategoriesPerBoard = 6

// BasePointValues is the fixed set of allowed un-multiplied question values
var BasePointValues = []int{100, 200, 300, 500}

// ValidBasePoints reports whether pts is an allowed base value
func ValidBasePoints(pts int) bool {
	for _, v := range BasePointValues {
		if v == pts {
			return true
		}
	}
	return false
}

// Quiz is an authored set of categories and questions
type Quiz struct {
	ID        QuizID
	Name      string
	CreatedAt time.Time
}

// Category groups questions on one board of a quiz
type Category struct {
	ID       CategoryID
	QuizID   QuizID
	Name     string
	Position int
	Board    int // 1 or 2
}

// Question is a single board cell. Points holds the base value; board-2
// multiplication is applied by the scoring engine, storage never doubles.
type Question struct {
	ID         QuestionID
	CategoryID CategoryID
	Points     int
	Text       string
	Answer     string
	Type       QuestionType
	ImageRef   string // opaque reference, resolved by an external store
	Board      int    // denormalized from the category for board filtering
}
