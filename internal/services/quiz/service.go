package quiz

import (
	"context"
	"log/slog"
	"sort"

	"github.com/akehlen/buzzquiz/internal/dependencies/clock"
	"github.com/akehlen/buzzquiz/internal/dependencies/random"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

const (
	idLength   = 12
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service manages quiz content: quizzes, categories and questions. The
// engine itself only reads this content and marks usage; authoring is
// validated here so boards can never exceed six categories or carry
// off-grid point values.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new quiz content service
func New(storage storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		random:  rnd,
		logger:  logger,
	}
}

// CreateQuiz creates an empty quiz
func (s *Service) CreateQuiz(ctx context.Context, name string) (*model.Quiz, error) {
	quiz := &model.Quiz{
		ID:        model.QuizID(s.random.String(idLength, idAlphabet)),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	s.logger.Info("quiz created", slog.String("quiz_id", string(quiz.ID)), slog.String("name", name))
	return quiz, nil
}

// GetQuiz retrieves a quiz by ID
func (s *Service) GetQuiz(ctx context.Context, id model.QuizID) (*model.Quiz, error) {
	return s.storage.GetQuiz(ctx, id)
}

// ListQuizzes returns all quizzes
func (s *Service) ListQuizzes(ctx context.Context) ([]*model.Quiz, error) {
	return s.storage.ListQuizzes(ctx)
}

// AddCategory adds a category to a quiz board. At most six active
// categories fit on one board.
func (s *Service) AddCategory(ctx context.Context, quizID model.QuizID, name string, position, board int) (*model.Category, error) {
	if board != model.BoardOne && board != model.BoardTwo {
		return nil, model.ErrInvalidBoard
	}
	if _, err := s.storage.GetQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	existing, err := s.storage.GetCategoriesForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	onBoard := 0
	for _, c := range existing {
		if c.Board == board {
			onBoard++
		}
	}
	if onBoard >= model.MaxCategoriesPerBoard {
		return nil, model.ErrTooManyCategories
	}

	category := &model.Category{
		ID:       model.CategoryID(s.random.String(idLength, idAlphabet)),
		QuizID:   quizID,
		Name:     name,
		Position: position,
		Board:    board,
	}
	if err := s.storage.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// AddQuestion adds a question to a category. Points must be one of the
// base values; image questions must carry an image reference.
func (s *Service) AddQuestion(ctx context.Context, categoryID model.CategoryID, points int, text, answer string, qType model.QuestionType, imageRef string) (*model.Question, error) {
	if !model.ValidBasePoints(points) {
		return nil, model.ErrInvalidPoints
	}
	if qType == "" {
		qType = model.QuestionTypeText
	}
	if qType == model.QuestionTypeImage && imageRef == "" {
		return nil, model.ErrMissingImageRef
	}

	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		ID:         model.QuestionID(s.random.String(idLength, idAlphabet)),
		CategoryID: categoryID,
		Points:     points,
		Text:       text,
		Answer:     answer,
		Type:       qType,
		ImageRef:   imageRef,
		Board:      category.Board,
	}
	if err := s.storage.SaveQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *Service) findCategory(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	quizzes, err := s.storage.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for _, q := range quizzes {
		categories, err := s.storage.GetCategoriesForQuiz(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range categories {
			if c.ID == id {
				return c, nil
			}
		}
	}
	return nil, model.ErrCategoryNotFound
}

// BoardColumn is a category with its questions in point order
type BoardColumn struct {
	Category  *model.Category
	Questions []*model.Question
}

// GetBoard returns the board layout for display: categories sorted by
// position, each with questions sorted by base points
func (s *Service) GetBoard(ctx context.Context, quizID model.QuizID, board int) ([]BoardColumn, error) {
	if board != model.BoardOne && board != model.BoardTwo {
		return nil, model.ErrInvalidBoard
	}

	categories, err := s.storage.GetCategoriesForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.storage.GetQuestionsForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[model.CategoryID][]*model.Question)
	for _, q := range questions {
		byCategory[q.CategoryID] = append(byCategory[q.CategoryID], q)
	}

	var columns []BoardColumn
	for _, c := range categories {
		if c.Board != board {
			continue
		}
		qs := byCategory[c.ID]
		sort.Slice(qs, func(i, j int) bool { return qs[i].Points < qs[j].Points })
		columns = append(columns, BoardColumn{Category: c, Questions: qs})
	}
	sort.Slice(columns, func(i, j int) bool {
		return columns[i].Category.Position < columns[j].Category.Position
	})

	if len(columns) > model.MaxCategoriesPerBoard {
		columns = columns[:model.MaxCategoriesPerBoard]
	}
	return columns, nil
}
