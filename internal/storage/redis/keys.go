package redis

import (
	"fmt"

	"github.com/akehlen/buzzquiz/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "buzzquiz"

// Key generation functions for each entity type

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// joinCodeIndexKey returns the Redis key for the join_code -> session_id index
func joinCodeIndexKey(code model.JoinCode) string {
	return fmt.Sprintf("%s:idx:join_code:%s", keyPrefix, code)
}

// gameStateKey returns the Redis key for a session's GameState
func gameStateKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:game_state:%s", keyPrefix, sessionID)
}

// quizKey returns the Redis key for a Quiz
func quizKey(id model.QuizID) string {
	return fmt.Sprintf("%s:quiz:%s", keyPrefix, id)
}

// quizIndexKey returns the Redis key for the SET of all quiz keys
func quizIndexKey() string {
	return fmt.Sprintf("%s:idx:quizzes", keyPrefix)
}

// categoryKey returns the Redis key for a Category
func categoryKey(id model.CategoryID) string {
	return fmt.Sprintf("%s:category:%s", keyPrefix, id)
}

// categoriesForQuizIndexKey returns the Redis key for the SET of category
// keys belonging to a quiz
func categoriesForQuizIndexKey(quizID model.QuizID) string {
	return fmt.Sprintf("%s:idx:categories_for_quiz:%s", keyPrefix, quizID)
}

// questionKey returns the Redis key for a Question
func questionKey(id model.QuestionID) string {
	return fmt.Sprintf("%s:question:%s", keyPrefix, id)
}

// questionsForCategoryIndexKey returns the Redis key for the SET of question
// keys belonging to a category
func questionsForCategoryIndexKey(categoryID model.CategoryID) string {
	return fmt.Sprintf("%s:idx:questions_for_category:%s", keyPrefix, categoryID)
}

// usedQuestionsKey returns the Redis key for the SET of used question ids in
// a session
func usedQuestionsKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:used_questions:%s", keyPrefix, sessionID)
}

// buzzListKey returns the Redis key for the ordered buzz list of a question
func buzzListKey(sessionID model.SessionID, questionID model.QuestionID) string {
	return fmt.Sprintf("%s:buzzes:%s:%s", keyPrefix, sessionID, questionID)
}

// buzzDedupKey returns the Redis key for the SET of players who have buzzed
// on a question
func buzzDedupKey(sessionID model.SessionID, questionID model.QuestionID) string {
	return fmt.Sprintf("%s:buzzed_players:%s:%s", keyPrefix, sessionID, questionID)
}

// buzzCounterKey returns the Redis key for the arrival order counter of a
// question
func buzzCounterKey(sessionID model.SessionID, questionID model.QuestionID) string {
	return fmt.Sprintf("%s:buzz_counter:%s:%s", keyPrefix, sessionID, questionID)
}

// buzzKeysForSessionIndexKey returns the Redis key for the SET of all buzz
// related keys of a session, used for teardown
func buzzKeysForSessionIndexKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:idx:buzz_keys:%s", keyPrefix, sessionID)
}

// resultsKey returns the Redis key for a session's final results
func resultsKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:results:%s", keyPrefix, sessionID)
}

// answerRecordsKey returns the Redis key for a session's answer audit log
func answerRecordsKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:answer_records:%s", keyPrefix, sessionID)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.UserID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// userStatsKey returns the Redis key for a user's lifetime stats
func userStatsKey(id model.UserID) string {
	return fmt.Sprintf("%s:user_stats:%s", keyPrefix, id)
}
