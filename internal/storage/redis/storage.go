package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL)
	pipe.Set(ctx, joinCodeIndexKey(session.JoinCode), string(session.ID), s.cfg.SessionTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) GetSessionByJoinCode(ctx context.Context, code model.JoinCode) (*model.Session, error) {
	sessionIDStr, err := s.client.Get(ctx, joinCodeIndexKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	return s.GetSession(ctx, model.SessionID(sessionIDStr))
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.Del(ctx, joinCodeIndexKey(session.JoinCode))
	pipe.Del(ctx, usedQuestionsKey(id))
	pipe.Del(ctx, resultsKey(id))
	pipe.Del(ctx, answerRecordsKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) JoinCodeExists(ctx context.Context, code model.JoinCode) (bool, error) {
	exists, err := s.client.Exists(ctx, joinCodeIndexKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Game state operations

func (s *Storage) SaveGameState(ctx context.Context, gs *model.GameState) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, gameStateKey(gs.SessionID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetGameState(ctx context.Context, sessionID model.SessionID) (*model.GameState, error) {
	data, err := s.client.Get(ctx, gameStateKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameStateNotFound
		}
		return nil, err
	}

	var gs model.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

func (s *Storage) DeleteGameState(ctx context.Context, sessionID model.SessionID) error {
	return s.client.Del(ctx, gameStateKey(sessionID)).Err()
}

// Quiz content operations

func (s *Storage) SaveQuiz(ctx context.Context, quiz *model.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, quizKey(quiz.ID), data, 0) // No TTL
	pipe.SAdd(ctx, quizIndexKey(), quizKey(quiz.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetQuiz(ctx context.Context, id model.QuizID) (*model.Quiz, error) {
	data, err := s.client.Get(ctx, quizKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrQuizNotFound
		}
		return nil, err
	}

	var quiz model.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *Storage) ListQuizzes(ctx context.Context) ([]*model.Quiz, error) {
	keys, err := s.client.SMembers(ctx, quizIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.Quiz{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	quizzes := make([]*model.Quiz, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var quiz model.Quiz
		if err := json.Unmarshal([]byte(val.(string)), &quiz); err != nil {
			continue // Skip invalid data
		}
		quizzes = append(quizzes, &quiz)
	}

	return quizzes, nil
}

func (s *Storage) SaveCategory(ctx context.Context, category *model.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, categoryKey(category.ID), data, 0)
	pipe.SAdd(ctx, categoriesForQuizIndexKey(category.QuizID), categoryKey(category.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCategoriesForQuiz(ctx context.Context, quizID model.QuizID) ([]*model.Category, error) {
	keys, err := s.client.SMembers(ctx, categoriesForQuizIndexKey(quizID)).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.Category{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	categories := make([]*model.Category, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var category model.Category
		if err := json.Unmarshal([]byte(val.(string)), &category); err != nil {
			continue
		}
		categories = append(categories, &category)
	}

	return categories, nil
}

func (s *Storage) SaveQuestion(ctx context.Context, question *model.Question) error {
	data, err := json.Marshal(question)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, questionKey(question.ID), data, 0)
	pipe.SAdd(ctx, questionsForCategoryIndexKey(question.CategoryID), questionKey(question.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	data, err := s.client.Get(ctx, questionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrQuestionNotFound
		}
		return nil, err
	}

	var question model.Question
	if err := json.Unmarshal(data, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *Storage) GetQuestionsForQuiz(ctx context.Context, quizID model.QuizID) ([]*model.Question, error) {
	categories, err := s.GetCategoriesForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var questionKeys []string
	for _, category := range categories {
		keys, err := s.client.SMembers(ctx, questionsForCategoryIndexKey(category.ID)).Result()
		if err != nil {
			return nil, err
		}
		questionKeys = append(questionKeys, keys...)
	}

	if len(questionKeys) == 0 {
		return []*model.Question{}, nil
	}

	values, err := s.client.MGet(ctx, questionKeys...).Result()
	if err != nil {
		return nil, err
	}

	questions := make([]*model.Question, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var question model.Question
		if err := json.Unmarshal([]byte(val.(string)), &question); err != nil {
			continue
		}
		questions = append(questions, &question)
	}

	return questions, nil
}

// Question usage operations

func (s *Storage) MarkQuestionUsed(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID) error {
	key := usedQuestionsKey(sessionID)

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, key, string(questionID))
	pipe.Expire(ctx, key, s.cfg.SessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUsedQuestions(ctx context.Context, sessionID model.SessionID) (map[model.QuestionID]bool, error) {
	ids, err := s.client.SMembers(ctx, usedQuestionsKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	used := make(map[model.QuestionID]bool, len(ids))
	for _, id := range ids {
		used[model.QuestionID(id)] = true
	}
	return used, nil
}

// Buzz operations

func (s *Storage) AppendBuzz(ctx context.Context, buzz *model.BuzzEvent) error {
	dedupKey := buzzDedupKey(buzz.SessionID, buzz.QuestionID)

	// SADD doubles as the duplicate check: 0 added means the player has
	// already buzzed this question
	added, err := s.client.SAdd(ctx, dedupKey, string(buzz.PlayerID)).Result()
	if err != nil {
		return err
	}
	if added == 0 {
		return model.ErrAlreadyBuzzed
	}

	order, err := s.client.Incr(ctx, buzzCounterKey(buzz.SessionID, buzz.QuestionID)).Result()
	if err != nil {
		return err
	}
	buzz.ArrivalOrder = int(order)

	data, err := json.Marshal(buzz)
	if err != nil {
		return err
	}

	listKey := buzzListKey(buzz.SessionID, buzz.QuestionID)
	indexKey := buzzKeysForSessionIndexKey(buzz.SessionID)

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, listKey, data)
	pipe.SAdd(ctx, indexKey, listKey, dedupKey, buzzCounterKey(buzz.SessionID, buzz.QuestionID))
	pipe.Expire(ctx, listKey, s.cfg.SessionTTL)
	pipe.Expire(ctx, dedupKey, s.cfg.SessionTTL)
	pipe.Expire(ctx, indexKey, s.cfg.SessionTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetBuzzes(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID) ([]model.BuzzEvent, error) {
	values, err := s.client.LRange(ctx, buzzListKey(sessionID, questionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	buzzes := make([]model.BuzzEvent, 0, len(values))
	for _, val := range values {
		var buzz model.BuzzEvent
		if err := json.Unmarshal([]byte(val), &buzz); err != nil {
			continue
		}
		buzzes = append(buzzes, buzz)
	}
	return buzzes, nil
}

func (s *Storage) RemoveBuzz(ctx context.Context, sessionID model.SessionID, questionID model.QuestionID, playerID model.PlayerID) error {
	buzzes, err := s.GetBuzzes(ctx, sessionID, questionID)
	if err != nil {
		return err
	}

	listKey := buzzListKey(sessionID, questionID)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, listKey)
	for _, buzz := range buzzes {
		if buzz.PlayerID == playerID {
			continue
		}
		data, err := json.Marshal(buzz)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, listKey, data)
	}
	pipe.Expire(ctx, listKey, s.cfg.SessionTTL)
	pipe.SRem(ctx, buzzDedupKey(sessionID, questionID), string(playerID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ClearBuzzes(ctx context.Context, sessionID model.SessionID) error {
	indexKey := buzzKeysForSessionIndexKey(sessionID)

	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Results and audit operations

func (s *Storage) SaveResults(ctx context.Context, sessionID model.SessionID, results []model.PlayerResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, resultsKey(sessionID), data, s.cfg.ResultsTTL).Err()
}

func (s *Storage) GetResults(ctx context.Context, sessionID model.SessionID) ([]model.PlayerResult, error) {
	data, err := s.client.Get(ctx, resultsKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrResultsNotFound
		}
		return nil, err
	}

	var results []model.PlayerResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Storage) AppendAnswerRecord(ctx context.Context, record *model.AnswerRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := answerRecordsKey(record.SessionID)

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.cfg.ResultsTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAnswerRecords(ctx context.Context, sessionID model.SessionID) ([]model.AnswerRecord, error) {
	values, err := s.client.LRange(ctx, answerRecordsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.AnswerRecord, 0, len(values))
	for _, val := range values {
		var record model.AnswerRecord
		if err := json.Unmarshal([]byte(val), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.UserID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(account.Username), string(account.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.UserID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	userIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.UserID(userIDStr))
}

// User stats operations

func (s *Storage) SaveUserStats(ctx context.Context, stats *model.UserStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, userStatsKey(stats.UserID), data, 0).Err()
}

func (s *Storage) GetUserStats(ctx context.Context, id model.UserID) (*model.UserStats, error) {
	data, err := s.client.Get(ctx, userStatsKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
