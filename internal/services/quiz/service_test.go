package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/akehlen/buzzquiz/internal/dependencies/mocks"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage/memory"
	"github.com/akehlen/buzzquiz/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateQuiz() {
	quiz, err := s.service.CreateQuiz(s.ctx, "Trivia Night")
	s.Require().NoError(err)
	s.Equal("Trivia Night", quiz.Name)
	s.NotEmpty(quiz.ID)
	s.Equal(s.clock.Now(), quiz.CreatedAt)

	stored, err := s.service.GetQuiz(s.ctx, quiz.ID)
	s.Require().NoError(err)
	s.Equal(quiz.Name, stored.Name)
}

func (s *ServiceSuite) TestListQuizzes() {
	_, err := s.service.CreateQuiz(s.ctx, "First")
	s.Require().NoError(err)
	_, err = s.service.CreateQuiz(s.ctx, "Second")
	s.Require().NoError(err)

	quizzes, err := s.service.ListQuizzes(s.ctx)
	s.Require().NoError(err)
	s.Len(quizzes, 2)
}

func (s *ServiceSuite) TestAddCategory() {
	quiz, err := s.service.CreateQuiz(s.ctx, "Quiz")
	s.Require().NoError(err)

	category, err := s.service.AddCategory(s.ctx, quiz.ID, "History", 0, model.BoardOne)
	s.Require().NoError(err)
	s.Equal("History", category.Name)
	s.Equal(quiz.ID, category.QuizID)
	s.Equal(model.BoardOne, category.Board)
}

func (s *ServiceSuite) TestAddCategoryInvalidBoard() {
	quiz, err := s.service.CreateQuiz(s.ctx, "Quiz")
	s.Require().NoError(err)

	_, err = s.service.AddCategory(s.ctx, quiz.ID, "History", 0, 3)
	s.Require().ErrorIs(err, model.ErrInvalidBoard)
}

func (s *ServiceSuite) TestAddCategoryUnknownQuiz() {
	_, err := s.service.AddCategory(s.ctx, "missing", "History", 0, model.BoardOne)
	s.Require().ErrorIs(err, model.ErrQuizNotFound)
}

func (s *ServiceSuite) TestAddCategoryBoardCapacity() {
	quiz, err := s.service.CreateQuiz(s.ctx, "Quiz")
	s.Require().NoError(err)

	for i := 0; i < model.MaxCategoriesPerBoard; i++ {
		_, err := s.service.AddCategory(s.ctx, quiz.ID, "Cat", i, model.BoardOne)
		s.Require().NoError(err)
	}

	_, err = s.service.AddCategory(s.ctx, quiz.ID, "Overflow", 6, model.BoardOne)
	s.Require().ErrorIs(err, model.ErrTooManyCategories)

	// The other board has its own capacity
	_, err = s.service.AddCategory(s.ctx, quiz.ID, "Cat", 0, model.BoardTwo)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestAddQuestion() {
	quiz, err := s.service.CreateQuiz(s.ctx, "Quiz")
	s.Require().NoError(err)
	category, err := s.service.AddCategory(s.ctx, quiz.ID, "History", 0, model.BoardTwo)
	s.Require().NoError(err)

	q, err := s.service.AddQuestion(s.ctx, category.ID, 300, "Question?", "Answer", model.QuestionTypeText, "")
	s.Require().NoError(err)
	s.Equal(300, q.Points)
	s.Equal(category.ID, q.CategoryID)

	// Board is denormalized from the category
	s.Equal(model.BoardTwo, q.Board)
}

func (s *ServiceSuite) TestAddQuestionDefaultsToTextType() {
	quiz, _ := s.service.CreateQuiz(s.ctx, "Quiz")
	category, _ := s.service.AddCategory(s.ctx, quiz.ID, "History", 0, model.BoardOne)

	q, err := s.service.AddQuestion(s.ctx, category.ID, 100, "Question?", "Answer", "", "")
	s.Require().NoError(err)
	s.Equal(model.QuestionTypeText, q.Type)
}

func (s *ServiceSuite) TestAddQuestionOffGridPoints() {
	quiz, _ := s.service.CreateQuiz(s.ctx, "Quiz")
	category, _ := s.service.AddCategory(s.ctx, quiz.ID, "History", 0, model.BoardOne)

	_, err := s.service.AddQuestion(s.ctx, category.ID, 400, "Question?", "Answer", model.QuestionTypeText, "")
	s.Require().ErrorIs(err, model.ErrInvalidPoints)
}

func (s *ServiceSuite) TestAddImageQuestionRequiresRef() {
	quiz, _ := s.service.CreateQuiz(s.ctx, "Quiz")
	category, _ := s.service.AddCategory(s.ctx, quiz.ID, "History", 0, model.BoardOne)

	_, err := s.service.AddQuestion(s.ctx, category.ID, 100, "Question?", "Answer", model.QuestionTypeImage, "")
	s.Require().ErrorIs(err, model.ErrMissingImageRef)

	q, err := s.service.AddQuestion(s.ctx, category.ID, 100, "Question?", "Answer", model.QuestionTypeImage, "img/42")
	s.Require().NoError(err)
	s.Equal("img/42", q.ImageRef)
}

func (s *ServiceSuite) TestAddQuestionUnknownCategory() {
	_, err := s.service.AddQuestion(s.ctx, "missing", 100, "Question?", "Answer", model.QuestionTypeText, "")
	s.Require().ErrorIs(err, model.ErrCategoryNotFound)
}

func (s *ServiceSuite) TestGetBoardLayout() {
	quiz, _ := s.service.CreateQuiz(s.ctx, "Quiz")

	// Added out of position order
	science, err := s.service.AddCategory(s.ctx, quiz.ID, "Science", 1, model.BoardOne)
	s.Require().NoError(err)
	history, err := s.service.AddCategory(s.ctx, quiz.ID, "History", 0, model.BoardOne)
	s.Require().NoError(err)
	_, err = s.service.AddCategory(s.ctx, quiz.ID, "Movies", 0, model.BoardTwo)
	s.Require().NoError(err)

	// Added out of point order
	for _, pts := range []int{500, 100, 300, 200} {
		_, err := s.service.AddQuestion(s.ctx, history.ID, pts, "q", "a", model.QuestionTypeText, "")
		s.Require().NoError(err)
	}
	_, err = s.service.AddQuestion(s.ctx, science.ID, 100, "q", "a", model.QuestionTypeText, "")
	s.Require().NoError(err)

	columns, err := s.service.GetBoard(s.ctx, quiz.ID, model.BoardOne)
	s.Require().NoError(err)
	s.Require().Len(columns, 2)

	s.Equal("History", columns[0].Category.Name)
	s.Equal("Science", columns[1].Category.Name)

	points := make([]int, 0, 4)
	for _, q := range columns[0].Questions {
		points = append(points, q.Points)
	}
	s.Equal([]int{100, 200, 300, 500}, points)
}

func (s *ServiceSuite) TestGetBoardInvalidBoard() {
	quiz, _ := s.service.CreateQuiz(s.ctx, "Quiz")

	_, err := s.service.GetBoard(s.ctx, quiz.ID, 0)
	s.Require().ErrorIs(err, model.ErrInvalidBoard)
}
