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
	Tracing  TracingConfig
	Client   ClientConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	PushLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	// PendingTTL bounds how long an unfetched share is kept when running
	// without a database. Zero keeps it until acknowledged.
	PendingTTL time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// ClientConfig drives the annotate CLI.
type ClientConfig struct {
	ServerURL    string
	PushURL      string
	StoreBackend string
	StorePath    string
	SyncTimeout  time.Duration
	LogFilePath  string
	UserName     string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "annotate-server.log"),
			PushLogFilePath:    getEnv("PUSH_LOG_FILE_PATH", "logs/push.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			PendingTTL:         getEnvAsDuration("PENDING_TTL", 0),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "video-annotate"),
		},
		Client: ClientConfig{
			ServerURL:    getEnv("ANNOTATE_SERVER_URL", "http://localhost:3000/api/annotation/v1"),
			PushURL:      getEnv("ANNOTATE_PUSH_URL", "ws://localhost:3000/api/ws"),
			StoreBackend: getEnv("ANNOTATE_STORE", "file"),
			StorePath:    getEnv("ANNOTATE_STORE_PATH", defaultStorePath()),
			SyncTimeout:  getEnvAsDuration("ANNOTATE_SYNC_TIMEOUT", 15*time.Second),
			LogFilePath:  getEnv("ANNOTATE_LOG_FILE", "annotate.log"),
			UserName:     getEnv("ANNOTATE_USER", ""),
		},
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".annotate"
	}
	return dir + string(os.PathSeparator) + "video-annotate"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
