package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Chunking.Size != 1000 || cfg.Chunking.Overlap != 200 {
		t.Errorf("chunking defaults = %d/%d, want 1000/200", cfg.Chunking.Size, cfg.Chunking.Overlap)
	}
	if cfg.Retrieval.DocTopK != 3 || cfg.Retrieval.HybridTopK != 2 {
		t.Errorf("retrieval defaults = %d/%d, want 3/2", cfg.Retrieval.DocTopK, cfg.Retrieval.HybridTopK)
	}
	if cfg.Retrieval.MemoryWindow != 5 {
		t.Errorf("memory window default = %d, want 5", cfg.Retrieval.MemoryWindow)
	}
	if !cfg.Retrieval.DocMemory {
		t.Error("DocMemory should default to true")
	}
	if cfg.LLM.Model != "llama-3.1-8b-instant" {
		t.Errorf("model default = %q", cfg.LLM.Model)
	}
	if cfg.Index.Backend != "memory" {
		t.Errorf("index backend default = %q, want memory", cfg.Index.Backend)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "50")
	t.Setenv("DOC_MEMORY", "false")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_TEMPERATURE", "0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Chunking.Size != 500 || cfg.Chunking.Overlap != 50 {
		t.Errorf("chunking = %d/%d, want 500/50", cfg.Chunking.Size, cfg.Chunking.Overlap)
	}
	if cfg.Retrieval.DocMemory {
		t.Error("DocMemory should be off")
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Temperature != 0.2 {
		t.Errorf("llm = %q/%v", cfg.LLM.Provider, cfg.LLM.Temperature)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"overlap not below size", map[string]string{"CHUNK_OVERLAP": "1000"}, "CHUNK_OVERLAP"},
		{"zero chunk size", map[string]string{"CHUNK_SIZE": "0"}, "CHUNK_SIZE"},
		{"unknown llm provider", map[string]string{"LLM_PROVIDER": "aol"}, "LLM_PROVIDER"},
		{"unknown index backend", map[string]string{"INDEX_BACKEND": "faiss"}, "INDEX_BACKEND"},
		{"postgres without dsn", map[string]string{"INDEX_BACKEND": "postgres"}, "POSTGRES_DSN"},
		{"temperature out of range", map[string]string{"LLM_TEMPERATURE": "3.5"}, "LLM_TEMPERATURE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}
