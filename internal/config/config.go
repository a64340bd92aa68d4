package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Ollama    OllamaConfig
	Qdrant    QdrantConfig
	Retrieval RetrievalConfig
	Storage   StorageConfig
	Interview InterviewConfig
	Vision    VisionConfig
	Speech    SpeechConfig
	Prompts   PromptsConfig
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

type OllamaConfig struct {
	BaseURL        string
	LLMModel       string
	EmbeddingModel string
	VisionModel    string
	Timeout        time.Duration
}

type QdrantConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type RetrievalConfig struct {
	ChunkSize          int
	ChunkOverlap       int
	MaxRetrievedChunks int
	MaxContextTokens   int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type InterviewConfig struct {
	QuestionCount int
}

type VisionConfig struct {
	Enabled       bool
	FrameInterval time.Duration
	WorkerBuffer  int
}

type SpeechConfig struct {
	WhisperBin   string
	WhisperModel string
	PiperBin     string
	PiperVoice   string
}

type PromptsConfig struct {
	File string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ai_interview_platform"),
		},
		Ollama: OllamaConfig{
			BaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:       getEnv("OLLAMA_LLM_MODEL", "llama3.1:8b-instruct-q4_K_M"),
			EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			VisionModel:    getEnv("OLLAMA_VISION_MODEL", "llava:7b-q4"),
			Timeout:        getEnvAsDuration("LLM_TIMEOUT", "120s"),
		},
		Qdrant: QdrantConfig{
			URL:     getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:  getEnv("QDRANT_API_KEY", ""),
			Timeout: getEnvAsDuration("QDRANT_TIMEOUT", "30s"),
		},
		Retrieval: RetrievalConfig{
			ChunkSize:          getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap:       getEnvAsInt("CHUNK_OVERLAP", 100),
			MaxRetrievedChunks: getEnvAsInt("MAX_RETRIEVED_CHUNKS", 3),
			MaxContextTokens:   getEnvAsInt("MAX_CONTEXT_TOKENS", 2000),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_DIR", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 52428800),
		},
		Interview: InterviewConfig{
			QuestionCount: getEnvAsInt("QUESTION_COUNT", 8),
		},
		Vision: VisionConfig{
			Enabled:       getEnvAsBool("VISION_ENABLED", true),
			FrameInterval: getEnvAsDuration("VISION_FRAME_INTERVAL", "5s"),
			WorkerBuffer:  getEnvAsInt("VISION_WORKER_BUFFER", 100),
		},
		Speech: SpeechConfig{
			WhisperBin:   getEnv("WHISPER_BIN", "whisper-cli"),
			WhisperModel: getEnv("WHISPER_MODEL", "small"),
			PiperBin:     getEnv("PIPER_BIN", "piper"),
			PiperVoice:   getEnv("PIPER_VOICE", "en_US-lessac-medium"),
		},
		Prompts: PromptsConfig{
			File: getEnv("PROMPTS_FILE", ""),
		},
	}
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
