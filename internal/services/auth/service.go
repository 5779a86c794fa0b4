package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akehlen/buzzquiz/internal/dependencies/clock"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
)

// Token is an authenticated login for a registered account. Accounts are
// optional: gameplay never requires one, they only tag persisted results
// and stats.
type Token struct {
	Value     string
	UserID    model.UserID
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles account registration and token validation
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu     sync.RWMutex
	tokens map[string]*Token

	tokenDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	TokenDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: 24 * time.Hour,
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	return &Service{
		storage:       storage,
		clock:         clock,
		tokens:        make(map[string]*Token),
		tokenDuration: cfg.TokenDuration,
	}
}

// Register creates an account and logs it in
func (s *Service) Register(ctx context.Context, username, password string) (*Token, error) {
	_, err := s.storage.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &model.Account{
		UserID:       model.UserID(s.generateID("u_")),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.createToken(account), nil
}

// Login authenticates an account and issues a token
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	account, err := s.storage.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createToken(account), nil
}

// Validate checks a token and returns its login, pruning it if expired
func (s *Service) Validate(token string) (*Token, error) {
	s.mu.RLock()
	t, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidToken
	}
	if s.clock.Now().After(t.ExpiresAt) {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
		return nil, ErrInvalidToken
	}
	return t, nil
}

// Invalidate removes a token (logout)
func (s *Service) Invalidate(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// createToken issues a new token for an account
func (s *Service) createToken(account *model.Account) *Token {
	now := s.clock.Now()
	t := &Token{
		Value:     s.generateID("tok_"),
		UserID:    account.UserID,
		Username:  account.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenDuration),
	}

	s.mu.Lock()
	s.tokens[t.Value] = t
	s.mu.Unlock()
	return t
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredTokens removes expired tokens (call periodically)
func (s *Service) CleanExpiredTokens() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for value, t := range s.tokens {
		if now.After(t.ExpiresAt) {
			delete(s.tokens, value)
		}
	}
}
