package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Identity IdentityConfig
	Replay   ReplayConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

// IdentityConfig points at the external identity service that owns
// authentication and the friend graph.
type IdentityConfig struct {
	VerifyTokenURL string
	FriendsURL     string
}

type ReplayConfig struct {
	ChatBacklog int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8090"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Identity: IdentityConfig{
			VerifyTokenURL: getEnv("VERIFY_TOKEN_URL", "http://localhost:8000/api/v1/auth/verify"),
			FriendsURL:     getEnv("GET_USER_FRIENDS_URL", "http://localhost:8000/api/v1/auth/friends"),
		},
		Replay: ReplayConfig{
			ChatBacklog: getEnvAsInt("CHAT_REPLAY_BACKLOG", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
