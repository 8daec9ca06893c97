// internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/jason-s-yu/ginrummy/internal/models"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is everything the console client reads from the environment.
type Config struct {
	LogLevel logrus.Level
	// Seed fixes the shuffle source when non-zero.
	Seed  int64
	Rules models.HouseRules

	// RedisAddr enables the action historian when set.
	RedisAddr      string
	RedisDB        int
	HistorianQueue string

	// DatabaseURL enables the hand result sink when set.
	DatabaseURL string

	// Historian service settings.
	HistorianBatchSize int
	HistorianFlushMs   int
	InactivityTimeout  int // seconds
}

// Load reads .env files (a missing file is fine) and then the environment.
func Load(filenames ...string) (Config, error) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, falling back to defaults.
func FromEnv() (Config, error) {
	level, err := logrus.ParseLevel(getEnv("GIN_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("GIN_LOG_LEVEL: %w", err)
	}

	cfg := Config{
		LogLevel:       level,
		Seed:           getEnvInt64("GIN_SEED", 0),
		Rules:          models.DefaultHouseRules(),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		HistorianQueue: getEnv("HISTORIAN_QUEUE_NAME", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		HistorianBatchSize: getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		HistorianFlushMs:   getEnvInt("HISTORIAN_FLUSH_MS", 500),
		InactivityTimeout:  getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 600),
	}

	if raw := getEnv("GIN_HOUSE_RULES", ""); raw != "" {
		var overrides map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			return Config{}, fmt.Errorf("GIN_HOUSE_RULES is not a JSON object: %w", err)
		}
		if err := cfg.Rules.Update(overrides); err != nil {
			return Config{}, fmt.Errorf("GIN_HOUSE_RULES: %w", err)
		}
	}
	return cfg, nil
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer value from an environment variable or returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}

func getEnvInt64(key string, defVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defVal
	}
	return i
}
