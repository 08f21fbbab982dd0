package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Screening ScreeningConfig
	SMTP      SMTPConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL          string
	APIKey       string
	CollectionJD string
	CollectionCV string
}

type GeminiConfig struct {
	APIKey string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type ScreeningConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	MinMatchScore float64
	TopKContext   int
	MaxShortlist  int
}

type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

type WorkerConfig struct {
	Concurrency      int
	RetryMaxAttempts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "job_screening"),
		},
		Qdrant: QdrantConfig{
			URL:          getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:       getEnv("QDRANT_API_KEY", ""),
			CollectionJD: getEnv("QDRANT_COLLECTION_JD", "job_descriptions"),
			CollectionCV: getEnv("QDRANT_COLLECTION_CV", "candidate_cvs"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Screening: ScreeningConfig{
			ChunkSize:     getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap:  getEnvAsInt("CHUNK_OVERLAP", 50),
			MinMatchScore: getEnvAsFloat("MIN_MATCH_SCORE", 60.0),
			TopKContext:   getEnvAsInt("TOP_K_CONTEXT", 3),
			MaxShortlist:  getEnvAsInt("MAX_SHORTLIST", 10),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			From:     getEnv("EMAIL_FROM", "noreply@example.com"),
			Password: getEnv("EMAIL_PASSWORD", ""),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvAsInt("WORKER_CONCURRENCY", 1),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		},
	}
}

// Validate checks settings that must be present before any screening run can
// start. Called once at process start.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set in environment variables")
	}
	if c.Screening.ChunkOverlap >= c.Screening.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)",
			c.Screening.ChunkOverlap, c.Screening.ChunkSize)
	}
	return nil
}

// DemoMail reports whether mail delivery runs in no-op demo mode. The switch
// is static configuration, not a runtime fallback.
func (c *Config) DemoMail() bool {
	return c.SMTP.Password == ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
