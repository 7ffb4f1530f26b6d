package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	ServerPort     string
	RedisURL       string
	Env            string
	RedisTTL       time.Duration
	MinioURL       string
	MinioPublicURL string
	MinioUser      string
	MinioPassword  string
	MinioBucket    string
	OpenAI         OpenAIConfig
	FishAudio      FishAudioConfig
	AvatarTopK     int
	JobWorkers     int
}

// OpenAIConfig is injected into the provider client at construction
// time so tests can point it at a local double without touching the
// process environment.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	EmbedModel string
	ChatModel  string
	Timeout    time.Duration
}

type FishAudioConfig struct {
	APIKey       string
	BaseURL      string
	DefaultVoice string
	Timeout      time.Duration
}

func LoadConfig() Config {
	ttlStr := getEnv("REDIS_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 5 * time.Minute
	}

	return Config{
		DBHost:         getEnv("DB_HOST", "postgres"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPass:         getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "db_chat"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		RedisURL:       getEnv("REDIS_URL", "redis:6379"),
		Env:            getEnv("ENV", "dev"),
		RedisTTL:       ttl,
		MinioURL:       getEnv("MINIO_URL", "localhost:9000"),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		MinioUser:      getEnv("MINIO_USER", "minioadmin"),
		MinioPassword:  getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "chat-files"),
		OpenAI: OpenAIConfig{
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			BaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			EmbedModel: getEnv("OPENAI_EMBED_MODEL", "text-embedding-ada-002"),
			ChatModel:  getEnv("OPENAI_CHAT_MODEL", "gpt-4"),
			Timeout:    getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
		},
		FishAudio: FishAudioConfig{
			APIKey:       getEnv("FISH_AUDIO_API_KEY", ""),
			BaseURL:      getEnv("FISH_AUDIO_BASE_URL", "https://api.fish.audio"),
			DefaultVoice: getEnv("FISH_AUDIO_DEFAULT_VOICE", "en_male_2"),
			Timeout:      getEnvAsDuration("FISH_AUDIO_TIMEOUT", 30*time.Second),
		},
		AvatarTopK: getEnvAsInt("AVATAR_TOP_K", 5),
		JobWorkers: getEnvAsInt("JOB_WORKERS", 4),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}
