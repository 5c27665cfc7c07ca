package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gambler/wager-engine/database"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	DatabaseName string `envconfig:"DATABASE_NAME"`

	// Account configuration
	StartingBalance int64 `envconfig:"STARTING_BALANCE" default:"100000"`

	// Game configuration
	HouseEdge      float64            `envconfig:"HOUSE_EDGE" default:"0.01"`
	MinWager       int64              `envconfig:"MIN_WAGER" default:"100"`
	GameHouseEdges map[string]float64 `envconfig:"GAME_HOUSE_EDGES"` // per-game overrides, e.g. "keno:0.03,slots:0.04"
	DisabledGames  []string           `envconfig:"DISABLED_GAMES"`

	// Transfers
	TransfersEnabled bool `envconfig:"TRANSFERS_ENABLED" default:"true"`

	// Daily bonus configuration
	DailyBonusAmount int64 `envconfig:"DAILY_BONUS_AMOUNT" default:"5000"`
	DailyResetHour   int   `envconfig:"DAILY_RESET_HOUR" default:"14"` // Hour in UTC when the daily period rolls over (0-23)

	// Rakeback / lossback configuration
	RakebackRate     string        `envconfig:"RAKEBACK_RATE" default:"0.005"`
	RakebackCooldown time.Duration `envconfig:"RAKEBACK_COOLDOWN" default:"24h"`
	LossbackRate     string        `envconfig:"LOSSBACK_RATE" default:"0.05"`
	LossbackCooldown time.Duration `envconfig:"LOSSBACK_COOLDOWN" default:"168h"`

	// Counter command configuration
	CounterCooldown time.Duration `envconfig:"COUNTER_COOLDOWN" default:"1h"`
	CounterReward   int64         `envconfig:"COUNTER_REWARD" default:"0"`

	// Stats configuration
	MaxLeaderboardSize  int           `envconfig:"MAX_LEADERBOARD_SIZE" default:"10"`
	LeaderboardCacheTTL time.Duration `envconfig:"LEADERBOARD_CACHE_TTL" default:"30s"`

	// NATS configuration
	NATSServers string `envconfig:"NATS_SERVERS"` // NATS server addresses (comma-separated), empty disables publishing

	// Redis configuration
	RedisURL string `envconfig:"REDIS_URL"` // empty disables the leaderboard cache

	// Operations
	MetricsAddr       string `envconfig:"METRICS_ADDR" default:":9100"`
	ReconcileSchedule string `envconfig:"RECONCILE_SCHEDULE" default:"@every 1h"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat         string `envconfig:"LOG_FORMAT" default:"text"`

	// Environment
	Environment string `envconfig:"ENVIRONMENT" default:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// HouseEdgeFor returns the configured house edge for a game, falling back to the global edge
func (c *Config) HouseEdgeFor(game string) float64 {
	if edge, ok := c.GameHouseEdges[game]; ok {
		return edge
	}
	return c.HouseEdge
}

// GameEnabled reports whether a game is enabled
func (c *Config) GameEnabled(game string) bool {
	for _, disabled := range c.DisabledGames {
		if strings.EqualFold(strings.TrimSpace(disabled), game) {
			return false
		}
	}
	return true
}

// load loads configuration from environment variables
func load() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadOffline reads and validates the environment without requiring a
// database, for commands that never connect
func LoadOffline() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		StartingBalance:     100000,
		HouseEdge:           0.01,
		MinWager:            100,
		TransfersEnabled:    true,
		DailyBonusAmount:    5000,
		DailyResetHour:      14,
		RakebackRate:        "0.005",
		RakebackCooldown:    24 * time.Hour,
		LossbackRate:        "0.05",
		LossbackCooldown:    7 * 24 * time.Hour,
		CounterCooldown:     time.Hour,
		MaxLeaderboardSize:  10,
		LeaderboardCacheTTL: 30 * time.Second,
		ReconcileSchedule:   "@every 1h",
		LogLevel:            "info",
		LogFormat:           "text",
	}
}
