package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration, loaded from the environment with
// an optional .env file for local development.
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// GameConfig holds gameplay tuning knobs.
type GameConfig struct {
	TurnSeconds      int
	MaxRows          int
	RoomCodeLength   int
	StaleRoomTimeout time.Duration
	CleanupInterval  time.Duration
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Game: GameConfig{
			TurnSeconds:      getEnvInt("GAME_TURN_SECONDS", 45),
			MaxRows:          getEnvInt("GAME_MAX_ROWS", 6),
			RoomCodeLength:   getEnvInt("GAME_ROOM_CODE_LENGTH", 4),
			StaleRoomTimeout: time.Duration(getEnvInt("GAME_STALE_ROOM_MINUTES", 30)) * time.Minute,
			CleanupInterval:  time.Duration(getEnvInt("GAME_CLEANUP_INTERVAL_MINUTES", 5)) * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Game.TurnSeconds < 5 {
		return fmt.Errorf("turn duration too short: %ds", c.Game.TurnSeconds)
	}
	if c.Game.MaxRows < 1 {
		return fmt.Errorf("invalid max rows: %d", c.Game.MaxRows)
	}
	if c.Game.RoomCodeLength < 3 {
		return fmt.Errorf("room code length too short: %d", c.Game.RoomCodeLength)
	}
	return nil
}

// GetAddr returns the listen address in host:port form.
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// TurnDuration returns the turn timer length.
func (c *Config) TurnDuration() time.Duration {
	return time.Duration(c.Game.TurnSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
