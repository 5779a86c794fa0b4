package factory

import (
	"context"
	"strconv"
	"time"

	"github.com/akehlen/buzzquiz/internal/dependencies/mocks"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/auth"
	"github.com/akehlen/buzzquiz/internal/storage/memory"
	"github.com/akehlen/buzzquiz/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockPublisher *mocks.MockPublisher
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockPublisher := mocks.NewMockPublisher()

	app := newWithDependencies(store, mockClock, mockRandom,
		auth.DefaultConfig(), mockPublisher, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockPublisher: mockPublisher,
	}
}

// LoadTestQuiz builds a small quiz: two categories on board 1 and one on
// board 2, each with the full point ladder. Returns the quiz and its
// questions keyed "<category position>-<points>".
func (t *TestApp) LoadTestQuiz(ctx context.Context) (*model.Quiz, map[string]*model.Question, error) {
	quiz, err := t.QuizService.CreateQuiz(ctx, "Test Quiz")
	if err != nil {
		return nil, nil, err
	}

	questions := make(map[string]*model.Question)

	type catSpec struct {
		name     string
		position int
		board    int
	}
	cats := []catSpec{
		{"History", 0, model.BoardOne},
		{"Science", 1, model.BoardOne},
		{"Movies", 0, model.BoardTwo},
	}

	for _, cs := range cats {
		category, err := t.QuizService.AddCategory(ctx, quiz.ID, cs.name, cs.position, cs.board)
		if err != nil {
			return nil, nil, err
		}
		for _, pts := range model.BasePointValues {
			q, err := t.QuizService.AddQuestion(ctx, category.ID, pts,
				"question", "answer", model.QuestionTypeText, "")
			if err != nil {
				return nil, nil, err
			}
			questions[cs.name+"-"+strconv.Itoa(pts)] = q
		}
	}

	return quiz, questions, nil
}
