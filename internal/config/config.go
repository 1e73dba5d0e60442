package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Ai       AIConfig
	Content  ContentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	// WorkspaceTTL is how long an idle browser workspace is kept in memory.
	WorkspaceTTL time.Duration
}

type DatabaseConfig struct {
	Connection      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JwtSecret       string
	AccessTokenTTL  time.Duration
	ProfileCacheTTL time.Duration
}

type AIConfig struct {
	LLMProvider   string // "ollama"
	OllamaBaseURL string
	// SubjectModels maps an assistant subject to the model that serves it.
	// A subject without a model answers "<Subject> model not loaded".
	SubjectModels map[string]string
	// ChatEndpointURL is where the dashboard assistant sends its requests;
	// by default this server's own /api/chat.
	ChatEndpointURL   string
	ChatTimeout       time.Duration
	ChatRatePerSecond int
	ChatBurst         int
}

type ContentConfig struct {
	CatalogPath  string // empty: embedded catalog
	QuizBankPath string // empty: embedded bank
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	port := getEnv("APP_PORT", "3000")
	return &Config{
		App: AppConfig{
			Port:               port,
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:"+port),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			WorkspaceTTL:       getEnvAsDuration("WORKSPACE_TTL", 2*time.Hour),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Edu Dashboard"),
		},
		Auth: AuthConfig{
			JwtSecret:       getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
			ProfileCacheTTL: getEnvAsDuration("PROFILE_CACHE_TTL", 24*time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			SubjectModels: map[string]string{
				"chemistry": getEnv("CHEMISTRY_MODEL", "llama3"),
				"biology":   getEnv("BIOLOGY_MODEL", "llama3"),
			},
			ChatEndpointURL:   getEnv("CHAT_ENDPOINT_URL", "http://localhost:"+port),
			ChatTimeout:       getEnvAsDuration("CHAT_TIMEOUT", 60*time.Second),
			ChatRatePerSecond: getEnvAsInt("CHAT_RATE_PER_SECOND", 2),
			ChatBurst:         getEnvAsInt("CHAT_BURST", 5),
		},
		Content: ContentConfig{
			CatalogPath:  getEnv("CONTENT_CATALOG_PATH", ""),
			QuizBankPath: getEnv("QUIZ_BANK_PATH", ""),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
