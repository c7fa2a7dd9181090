package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultRoomCodeLength is the room code length used when ROOM_CODE_LENGTH is unset
const DefaultRoomCodeLength = 4

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Storage StorageConfig
	Audit   AuditConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port       string
	Host       string
	Env        string // "development" or "production"
	CORSOrigin string
	PublicURL  string
}

// GameConfig holds game-related configuration
type GameConfig struct {
	RoomCodeLength  int
	CreateRoomRate  float64 // room:create events per second per connection
	CreateRoomBurst int
}

// StorageConfig points at the optional word database
type StorageConfig struct {
	WordsDBPath string
}

// AuditConfig configures the round feed. An empty broker list disables it.
type AuditConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from a .env file, if present, and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "3001"),
			Host:       getEnv("HOST", "0.0.0.0"),
			Env:        getEnv("ENV", "development"),
			CORSOrigin: getEnv("CORS_ORIGIN", "*"),
			PublicURL:  strings.TrimSuffix(getEnv("PUBLIC_URL", "http://localhost:5173"), "/"),
		},
		Game: GameConfig{
			RoomCodeLength:  getEnvInt("ROOM_CODE_LENGTH", DefaultRoomCodeLength),
			CreateRoomRate:  getEnvFloat("CREATE_ROOM_RATE", 1),
			CreateRoomBurst: getEnvInt("CREATE_ROOM_BURST", 5),
		},
		Storage: StorageConfig{
			WordsDBPath: getEnv("WORDS_DB_PATH", ""),
		},
		Audit: AuditConfig{
			KafkaBrokers: getEnvList("KAFKA_BROKERS"),
			KafkaTopic:   getEnv("KAFKA_TOPIC", "sketchguess-rounds"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Warnings lists settings that are allowed but risky for the current
// environment
func (c *Config) Warnings() []string {
	var out []string
	if c.IsProduction() && c.Server.CORSOrigin == "*" {
		out = append(out, "CORS_ORIGIN allows every origin in production")
	}
	if c.Game.RoomCodeLength < DefaultRoomCodeLength {
		out = append(out, "ROOM_CODE_LENGTH below 4 makes room codes easy to guess")
	}
	return out
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// AllowsOrigin reports whether a browser origin may open a connection
func (c *Config) AllowsOrigin(origin string) bool {
	if origin == "" || c.Server.CORSOrigin == "*" {
		return true
	}
	for _, allowed := range strings.Split(c.Server.CORSOrigin, ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}
	return false
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
