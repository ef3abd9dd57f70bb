package model

import (
	"context"
	"fmt"
)

// Default models per provider, used when the configuration leaves the
// embedding model empty.
const (
	defaultOllamaEmbeddingModel = "nomic-embed-text"
	defaultOpenAIEmbeddingModel = "text-embedding-3-small"
)

// Embedder turns a piece of text into a vector. Implementations must return
// vectors of a fixed dimension for the lifetime of the process.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds the embedding backend selected by providerType.
// An empty modelName picks the provider default.
func NewEmbedder(providerType, modelName, baseURL, apiKey string) (Embedder, error) {
	switch providerType {
	case "ollama":
		if modelName == "" {
			modelName = defaultOllamaEmbeddingModel
		}
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return NewOllamaEmbedder(baseURL, modelName), nil
	case "openai":
		if modelName == "" {
			modelName = defaultOpenAIEmbeddingModel
		}
		return NewOpenAIEmbedder(apiKey, "", modelName)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}

// NewProvider builds the chat backend selected by providerType. Groq speaks
// the OpenAI wire protocol, only the base URL and key differ.
func NewProvider(providerType, modelName, baseURL, apiKey string) (Provider, error) {
	switch providerType {
	case "groq", "openai":
		return NewOpenAIProvider(apiKey, baseURL, modelName)
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
