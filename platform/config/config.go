package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// placeholderSecret is the fallback the original deployment shipped with.
// Starting with it would make every issued token forgeable.
const placeholderSecret = "your_secret_key"

type Config struct {
	Port        string
	Environment string

	TokenSecret string
	TokenTTL    time.Duration

	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	ProviderTimeout   time.Duration

	SupabaseURL    string
	SupabaseKey    string
	BackendTimeout time.Duration
	HistoryBackend string
	HistoryTable   string
	ProfilesTable  string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers string
	KafkaTopic   string

	StorageBackend string
	UploadDir      string
	OutputDir      string
	MaxUploadSize  int64 // Maximum file upload size in bytes
	SniffContent   bool

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func LoadConfig() *Config {
	return &Config{
		// Server settings
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Token settings
		TokenSecret: getEnv("TOKEN_SECRET", ""),
		TokenTTL:    time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 168)) * time.Hour,

		// Synthesis provider settings
		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsBaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"),
		ProviderTimeout:   time.Duration(getEnvAsInt("PROVIDER_TIMEOUT", 120)) * time.Second,

		// Identity/history backend settings
		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseKey:    getEnv("SUPABASE_KEY", ""),
		BackendTimeout: time.Duration(getEnvAsInt("BACKEND_TIMEOUT", 15)) * time.Second,
		HistoryBackend: getEnv("HISTORY_BACKEND", "supabase"),
		HistoryTable:   getEnv("HISTORY_TABLE", "audio_history"),
		ProfilesTable:  getEnv("PROFILES_TABLE", "profiles"),

		// Database settings (postgres history backend)
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "postgres"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis settings (optional voice-catalog cache)
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Kafka settings (optional clone events)
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "voice.clone.completed"),

		// Upload and output settings
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads/voice_samples"),
		OutputDir:      getEnv("OUTPUT_DIR", "outputs/generated_speech"),
		MaxUploadSize:  getEnvAsInt64("MAX_UPLOAD_SIZE", 15*1024*1024),
		SniffContent:   getEnvAsBool("UPLOAD_SNIFF_CONTENT", false),

		// MinIO settings (optional audio store backend)
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "generated-speech"),
		MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
	}
}

// Validate rejects configurations that cannot be run safely. The token
// secret must be set and must not be the well-known placeholder.
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET must be set")
	}
	if c.TokenSecret == placeholderSecret {
		return errors.New("TOKEN_SECRET is the placeholder value; set a real secret")
	}
	if c.ElevenLabsAPIKey == "" {
		return errors.New("ELEVENLABS_API_KEY must be set")
	}
	if c.HistoryBackend != "supabase" && c.HistoryBackend != "postgres" {
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}
	if c.StorageBackend != "local" && c.StorageBackend != "minio" {
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.HistoryBackend == "supabase" && c.SupabaseURL == "" {
		return errors.New("SUPABASE_URL must be set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
