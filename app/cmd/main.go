package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"docchat/app/engine"
	"docchat/app/server"
	"docchat/config"
	"docchat/index"
	"docchat/loader"
	"docchat/logger"
	"docchat/model"
	"docchat/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	logg := logger.New(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer logg.Sync()

	provider, err := newProvider(cfg)
	if err != nil {
		log.Fatal("could not initialize LLM provider: ", err)
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		log.Fatal("could not initialize embedder: ", err)
	}
	builder, closeBuilder, err := newBuilder(cfg)
	if err != nil {
		log.Fatal("could not initialize index backend: ", err)
	}
	defer closeBuilder()

	var snapshot *store.Snapshot
	if cfg.Store.SnapshotPath != "" {
		snapshot = store.NewSnapshot(cfg.Store.SnapshotPath)
	}
	sessions := store.NewMemoryStore(logg, snapshot)

	indexer := loader.NewIndexer(embedder, builder, logg, cfg.Chunking.Size, cfg.Chunking.Overlap)
	eng := engine.New(provider, embedder, sessions, logg, engine.Params{
		DocTopK:      cfg.Retrieval.DocTopK,
		HybridTopK:   cfg.Retrieval.HybridTopK,
		MemoryWindow: cfg.Retrieval.MemoryWindow,
		DocMemory:    cfg.Retrieval.DocMemory,
		Temperature:  cfg.LLM.Temperature,
	})

	srv := server.New(cfg, logg, eng, indexer, sessions)
	go func() {
		if err := srv.Run(); err != nil {
			logg.Error("main", "server stopped", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch

	logg.Info("main", "received shutdown signal", map[string]interface{}{})
	if err := srv.Shutdown(); err != nil {
		logg.Error("main", "shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func newProvider(cfg *config.Config) (model.Provider, error) {
	switch cfg.LLM.Provider {
	case "groq":
		return model.NewProvider("groq", cfg.LLM.Model, cfg.LLM.GroqBaseURL, cfg.LLM.GroqAPIKey)
	case "openai":
		return model.NewProvider("openai", cfg.LLM.Model, "", cfg.LLM.OpenAIKey)
	default:
		return model.NewProvider("ollama", cfg.LLM.Model, cfg.LLM.OllamaURL, "")
	}
}

func newEmbedder(cfg *config.Config) (model.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return model.NewEmbedder("openai", cfg.Embedding.Model, "", cfg.Embedding.OpenAIKey)
	default:
		return model.NewEmbedder("ollama", cfg.Embedding.Model, cfg.Embedding.OllamaURL, "")
	}
}

// newBuilder picks the index backend. The returned close function releases
// the postgres pool; for the in-memory backend it is a no-op.
func newBuilder(cfg *config.Config) (index.Builder, func(), error) {
	switch cfg.Index.Backend {
	case "postgres":
		pg, err := index.NewPostgresBuilder(context.Background(), cfg.Index.PostgresDSN, cfg.Embedding.Dimension)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	default:
		return index.NewMemoryBuilder(), func() {}, nil
	}
}
