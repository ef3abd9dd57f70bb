package api

import (
	"docchat/config"

	"github.com/gofiber/fiber/v2"
)

type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// HandleGetConfig reports the active answering configuration. API keys and
// connection strings stay out of the response.
func (h *ConfigHandler) HandleGetConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"llm_provider":       h.cfg.LLM.Provider,
		"llm_model":          h.cfg.LLM.Model,
		"temperature":        h.cfg.LLM.Temperature,
		"embedding_provider": h.cfg.Embedding.Provider,
		"index_backend":      h.cfg.Index.Backend,
		"chunk_size":         h.cfg.Chunking.Size,
		"chunk_overlap":      h.cfg.Chunking.Overlap,
		"doc_top_k":          h.cfg.Retrieval.DocTopK,
		"hybrid_top_k":       h.cfg.Retrieval.HybridTopK,
		"memory_window":      h.cfg.Retrieval.MemoryWindow,
	})
}
