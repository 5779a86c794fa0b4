package memory

import (
	"context"
	"sync"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on save and load so callers always work on
// snapshots, matching the behavior of an external store: a mutation is
// only visible after an explicit save.
type Storage struct {
	mu sync.RWMutex

	sessions      map[model.SessionID]*model.Session
	joinCodeIndex map[model.JoinCode]model.SessionID
	gameStates    map[model.SessionID]*model.GameState

	quizzes    map[model.QuizID]*model.Quiz
	categories map[model.QuizID][]*model.Category
	questions  map[model.QuestionID]*model.Question

	usedQuestions map[model.SessionID]map[model.QuestionID]bool
	buzzes        map[buzzKey][]model.BuzzEvent
	buzzCounters  map[buzzKey]int

	results       map[model.SessionID][]model.PlayerResult
	answerRecords map[model.SessionID][]model.AnswerRecord

	accounts      map[model.UserID]*model.Account
	usernameIndex map[string]model.UserID
	userStats     map[model.UserID]*model.UserStats
}

type buzzKey struct {
	sessionID  model.SessionID
	questionID model.QuestionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:      make(map[model.SessionID]*model.Session),
		joinCodeIndex: make(map[model.JoinCode]model.SessionID),
		gameStates:    make(map[model.SessionID]*model.GameState),
		quizzes:       make(map[model.QuizID]*model.Quiz),
		categories:    make(map[model.QuizID][]*model.Category),
		questions:     make(map[model.QuestionID]*model.Question),
		usedQuestions: make(map[model.SessionID]map[model.QuestionID]bool),
		buzzes:        make(map[buzzKey][]model.BuzzEvent),
		buzzCounters:  make(map[buzzKey]int),
		results:       make(map[model.SessionID][]model.PlayerResult),
		answerRecords: make(map[model.SessionID][]model.AnswerRecord),
		accounts:      make(map[model.UserID]*model.Account),
		usernameIndex: make(map[string]model.UserID),
		userStats:     make(map[model.UserID]*model.UserStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func cloneSession(s *model.Session) *model.Session {
	c := *s
	c.Players = append([]model.Player(nil), s.Players...)
	return &c
}

func cloneGameState(gs *model.GameState) *model.GameState {
	c := *gs
	return &c
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	s.joinCodeIndex[session.JoinCode] = session.ID
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Storage) GetSessionByJoinCode(ctx context.Context, code model.JoinCode) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.joinCodeIndex[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		delete(s.joinCodeIndex, session.JoinCode)
	}
	delete(s.sessions, id)
	delete(s.usedQuestions, id)
	delete(s.results, id)
	delete(s.answerRecords, id)
	return nil
}

func (s *Storage) JoinCodeExists(ctx context.Context, code model.JoinCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.joinCodeIndex[code]
	return ok, nil
}

// Game state operations

func (s *Storage) SaveGameState(ctx context.Context, gs *model.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameStates[gs.SessionID] = cloneGameState(gs)
	return nil
}

func (s *Storage) GetGameState(ctx context.Context, sessionID model.SessionID) (*model.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gs, ok := s.gameStates[sessionID]
	if !ok {
		return nil, model.ErrGameStateNotFound
	}
	return cloneGameState(gs), nil
}

func (s *Storage) DeleteGameState(ctx context.Context, sessionID model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.gameStates, sessionID)
	return nil
}

// Quiz content operations

func (s *Storage) SaveQuiz(ctx context.Context, quiz *model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := *quiz
	s.quizzes[quiz.ID] = &q
	return nil
}

func (s *Storage) GetQuiz(ctx context.Context, id model.QuizID) (*model.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, model.ErrQuizNotFound
	}
	q := *quiz
	return &q, nil
}

func (s *Storage) ListQuizzes(ctx context.Context) ([]*model.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]*model.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		q := *quiz
		quizzes = append(quizzes, &q)
	}
	return quizzes, nil
}

func (s *Storage) SaveCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *category
	for i, existing := range s.categories[category.QuizID] {
		if existing.ID == category.ID {
			s.categories[category.QuizID][i] = &c
			return nil
		}
	}
	s.categories[category.QuizID] = append(s.categories[category.QuizID], &c)
	return nil
}

func (s *Storage) GetCategoriesForQuiz(ctx context.Context, quizID model.QuizID) ([]*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]*model.Category, 0, len(s.categories[quizID]))
	for _, category := range s.categories[quizID] {
		c := *category
		categories = append(categories, &c)
	}
	return categories, nil
}

func (s *Storage) SaveQuestion(ctx context.Context, question *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := *question
	s.questions[question.ID] = &q
	return nil
}

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[id]
	if !ok {
		return nil, model.ErrQuestionNotFound
	}
	q := *question
	return &q, nil
}

func (s *Storage) GetQuestionsForQuiz(ctx context.Context, quizID model.QuizID) ([]*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categoryIDs := make(map[model.CategoryID]bool)
	for _, c := range s.categories[quizID] {
		categoryIDs[c.ID] = true
	}

	var questions []*model.Question
	for _, question := range s.questions {
		if categoryIDs[question.CategoryID] {
			q := *question
			questions = append(questions, &q)
		}
	}
	return questions, nil
}

// Question usage operations

func (s *Storage) MarkQuestionUsed(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usedQuestions[sessionID] == nil {
		s.usedQuestions[sessionID] = make(map[model.QuestionID]bool)
	}
	s.usedQuestions[sessionID][questionID] = true
	return nil
}

func (s *Storage) GetUsedQuestions(ctx context.Context, sessionID model.SessionID) (map[model.QuestionID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	used := make(map[model.QuestionID]bool, len(s.usedQuestions[sessionID]))
	for id, u := range s.usedQuestions[sessionID] {
		used[id] = u
	}
	return used, nil
}

// Buzz operations

func (s *Storage) AppendBuzz(ctx context.Context, buzz *model.BuzzEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := buzzKey{buzz.SessionID, buzz.QuestionID}
	for _, b := range s.buzzes[key] {
		if b.PlayerID == buzz.PlayerID {
			return model.ErrAlreadyBuzzed
		}
	}

	s.buzzCounters[key]++
	buzz.ArrivalOrder = s.buzzCounters[key]
	s.buzzes[key] = append(s.buzzes[key], *buzz)
	return nil
}

func (s *Storage) GetBuzzes(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID) ([]model.BuzzEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := buzzKey{sessionID, questionID}
	return append([]model.BuzzEvent(nil), s.buzzes[key]...), nil
}

func (s *Storage) RemoveBuzz(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := buzzKey{sessionID, questionID}
	buzzes := s.buzzes[key][:0]
	for _, b := range s.buzzes[key] {
		if b.PlayerID != playerID {
			buzzes = append(buzzes, b)
		}
	}
	s.buzzes[key] = buzzes
	return nil
}

func (s *Storage) ClearBuzzes(ctx context.Context, sessionID model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.buzzes {
		if key.sessionID == sessionID {
			delete(s.buzzes, key)
			delete(s.buzzCounters, key)
		}
	}
	return nil
}

// Results and audit operations

func (s *Storage) SaveResults(ctx context.Context, sessionID model.SessionID, results []model.PlayerResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[sessionID] = append([]model.PlayerResult(nil), results...)
	return nil
}

func (s *Storage) GetResults(ctx context.Context, sessionID model.SessionID) ([]model.PlayerResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results, ok := s.results[sessionID]
	if !ok {
		return nil, model.ErrResultsNotFound
	}
	return append([]model.PlayerResult(nil), results...), nil
}

func (s *Storage) AppendAnswerRecord(ctx context.Context, record *model.AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answerRecords[record.SessionID] = append(s.answerRecords[record.SessionID], *record)
	return nil
}

func (s *Storage) GetAnswerRecords(ctx context.Context, sessionID model.SessionID) ([]model.AnswerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.AnswerRecord(nil), s.answerRecords[sessionID]...), nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *account
	s.accounts[account.UserID] = &a
	s.usernameIndex[account.Username] = account.UserID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

// User stats operations

func (s *Storage) SaveUserStats(ctx context.Context, stats *model.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := *stats
	s.userStats[stats.UserID] = &st
	return nil
}

func (s *Storage) GetUserStats(ctx context.Context, id model.UserID) (*model.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.userStats[id]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	st := *stats
	return &st, nil
}
