package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/akehlen/buzzquiz/internal/dependencies/clock"
	"github.com/akehlen/buzzquiz/internal/dependencies/random"
	"github.com/akehlen/buzzquiz/internal/services/auth"
	"github.com/akehlen/buzzquiz/internal/services/buzzer"
	"github.com/akehlen/buzzquiz/internal/services/game"
	"github.com/akehlen/buzzquiz/internal/services/lobby"
	"github.com/akehlen/buzzquiz/internal/services/progression"
	"github.com/akehlen/buzzquiz/internal/services/quiz"
	"github.com/akehlen/buzzquiz/internal/services/scoring"
	"github.com/akehlen/buzzquiz/internal/services/stats"
	"github.com/akehlen/buzzquiz/internal/services/turn"
	"github.com/akehlen/buzzquiz/internal/sse"
	"github.com/akehlen/buzzquiz/internal/storage"
	"github.com/akehlen/buzzquiz/internal/storage/memory"
	redisstorage "github.com/akehlen/buzzquiz/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	TurnService        *turn.Service
	ScoringService     *scoring.Service
	BuzzerService      *buzzer.Service
	ProgressionService *progression.Service
	StatsService       *stats.Service
	QuizService        *quiz.Service
	GameController     *game.Controller
	LobbyController    *lobby.Controller
	AuthService        *auth.Service
	HubManager         *sse.HubManager
	Broadcaster        *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.TokenDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	app := newWithDependencies(store, clk, rnd, authCfg, broadcaster, logger)
	app.HubManager = hubManager
	app.Broadcaster = broadcaster
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, publisher game.Publisher, logger *slog.Logger) *App {
	// Create services
	turnService := turn.New(store, logger)
	scoringService := scoring.New(store, logger)
	buzzerService := buzzer.New(store, clk, logger)
	progressionService := progression.New(store, logger)
	statsService := stats.New(store, logger)
	quizService := quiz.New(store, clk, rnd, logger)
	gameController := game.NewController(store, turnService, scoringService,
		buzzerService, progressionService, statsService, clk, publisher, logger)
	lobbyController := lobby.NewController(store, gameController, turnService,
		clk, rnd, publisher, logger)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		TurnService:        turnService,
		ScoringService:     scoringService,
		BuzzerService:      buzzerService,
		ProgressionService: progressionService,
		StatsService:       statsService,
		QuizService:        quizService,
		GameController:     gameController,
		LobbyController:    lobbyController,
		AuthService:        authService,
	}
}
