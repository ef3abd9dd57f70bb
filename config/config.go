package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Chunking  ChunkingConfig
	Retrieval RetrievalConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Index     IndexConfig
	Store     StoreConfig
}

type AppConfig struct {
	ListenAddr         string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	BodyLimitMB        int
}

type ChunkingConfig struct {
	Size    int
	Overlap int
}

type RetrievalConfig struct {
	DocTopK      int
	HybridTopK   int
	MemoryWindow int
	// DocMemory controls whether document_only answers see recent turns.
	DocMemory bool
}

type LLMConfig struct {
	Provider    string // "groq", "openai" or "ollama"
	Model       string
	Temperature float64
	GroqAPIKey  string
	GroqBaseURL string
	OpenAIKey   string
	OllamaURL   string
}

type EmbeddingConfig struct {
	Provider  string // "ollama" or "openai"
	Model     string // empty picks the provider default
	OllamaURL string
	OpenAIKey string
	Dimension int
}

type IndexConfig struct {
	Backend     string // "memory" or "postgres"
	PostgresDSN string
}

type StoreConfig struct {
	SnapshotPath string // empty disables the session snapshot file
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	ollamaURL := getEnv("OLLAMA_BASE_URL", "http://localhost:11434")

	cfg := &Config{
		App: AppConfig{
			ListenAddr:         getEnv("SERVER_ADDR", ":8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/docchat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 10),
		},
		Chunking: ChunkingConfig{
			Size:    getEnvAsInt("CHUNK_SIZE", 1000),
			Overlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		},
		Retrieval: RetrievalConfig{
			DocTopK:      getEnvAsInt("DOC_TOP_K", 3),
			HybridTopK:   getEnvAsInt("HYBRID_TOP_K", 2),
			MemoryWindow: getEnvAsInt("MEMORY_WINDOW", 5),
			DocMemory:    getEnvAsBool("DOC_MEMORY", true),
		},
		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "groq"),
			Model:       getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.6),
			GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
			GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			OllamaURL:   ollamaURL,
		},
		Embedding: EmbeddingConfig{
			Provider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			Model:     getEnv("EMBEDDING_MODEL", ""),
			OllamaURL: ollamaURL,
			OpenAIKey: os.Getenv("OPENAI_API_KEY"),
			Dimension: getEnvAsInt("EMBEDDING_DIM", 768),
		},
		Index: IndexConfig{
			Backend:     getEnv("INDEX_BACKEND", "memory"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
		},
		Store: StoreConfig{
			SnapshotPath: getEnv("SNAPSHOT_PATH", "data/sessions.json"),
		},
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.Chunking.Overlap)
	}
	if c.Retrieval.DocTopK <= 0 || c.Retrieval.HybridTopK <= 0 {
		return fmt.Errorf("DOC_TOP_K and HYBRID_TOP_K must be positive")
	}
	if c.Retrieval.MemoryWindow < 0 {
		return fmt.Errorf("MEMORY_WINDOW must not be negative, got %d", c.Retrieval.MemoryWindow)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be 0-2, got %f", c.LLM.Temperature)
	}
	switch c.LLM.Provider {
	case "groq", "openai", "ollama":
	default:
		return fmt.Errorf("LLM_PROVIDER must be groq, openai or ollama, got %q", c.LLM.Provider)
	}
	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be ollama or openai, got %q", c.Embedding.Provider)
	}
	switch c.Index.Backend {
	case "memory":
	case "postgres":
		if c.Index.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when INDEX_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("INDEX_BACKEND must be memory or postgres, got %q", c.Index.Backend)
	}
	return nil
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	return strValue == "true" || strValue == "1"
}
