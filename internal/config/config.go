package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Memory   MemoryConfig
	Ai       AIConfig
	Thinking ThinkingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

// StoreConfig points at the JSON documents the planner and the
// conversation memory persist to.
type StoreConfig struct {
	DataDir     string
	PlannerFile string
	MemoryFile  string
}

type MemoryConfig struct {
	RecentWindow     int // messages always kept verbatim
	MaxMessages      int // hard ceiling after compaction
	SummaryThreshold int // compaction kicks in past this count
}

type AIConfig struct {
	LLMProvider   string // "ollama" or "openai"
	LLMModel      string
	OllamaBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

type ThinkingConfig struct {
	Enabled  bool
	BaseURL  string
	MaxSteps int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Store: StoreConfig{
			DataDir:     getEnv("DATA_DIR", "data"),
			PlannerFile: getEnv("PLANNER_FILE", "schedules.json"),
			MemoryFile:  getEnv("MEMORY_FILE", "conversation_memory.json"),
		},
		Memory: MemoryConfig{
			RecentWindow:     getEnvAsInt("MEMORY_RECENT_WINDOW", 20),
			MaxMessages:      getEnvAsInt("MEMORY_MAX_MESSAGES", 100),
			SummaryThreshold: getEnvAsInt("MEMORY_SUMMARY_THRESHOLD", 40),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "qwen2.5"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Thinking: ThinkingConfig{
			Enabled:  getEnvAsBool("THINKING_ENABLED", false),
			BaseURL:  getEnv("THINKING_BASE_URL", "http://localhost:8000"),
			MaxSteps: getEnvAsInt("THINKING_MAX_STEPS", 8),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
