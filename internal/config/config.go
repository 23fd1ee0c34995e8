package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Game       GameConfig
	Logging    LoggingConfig
	Store      StoreConfig
	Definition DefinitionConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string
	ClientOrigin string
	JWTSecret    string
	Env          string // NODE_ENV: "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	TickInterval  time.Duration // wall-clock length of one countdown second
	SessionTTL    time.Duration // idle time before a session is swept
	DailySalt     string
	PrimaryFile   string
	SecondaryFile string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// StoreConfig holds the attempt log location
type StoreConfig struct {
	DBPath string
}

// DefinitionConfig selects the dictionary backend
type DefinitionConfig struct {
	ProjectID string
	Region    string
	APIKey    string
	Model     string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5175"),
			ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
			JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
			Env:          getEnv("NODE_ENV", "development"),
		},
		Game: GameConfig{
			TickInterval:  time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
			SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
			PrimaryFile:   getEnv("WORDS_PRIMARY_FILE", ""),
			SecondaryFile: getEnv("WORDS_SECONDARY_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Store: StoreConfig{
			DBPath: getEnv("DB_PATH", "./data/wordhunt.db"),
		},
		Definition: DefinitionConfig{
			ProjectID: getEnv("GCP_PROJECT_ID", ""),
			Region:    getEnv("GCP_REGION", ""),
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			Model:     getEnv("GEMINI_MODEL", ""),
		},
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
