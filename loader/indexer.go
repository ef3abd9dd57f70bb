package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docchat/index"
	"docchat/logger"
	"docchat/model"
	"docchat/types"

	"github.com/google/uuid"
)

// Indexer turns an uploaded file into a searchable index: stage to disk,
// extract, split, embed, build. One Indexer serves all sessions.
type Indexer struct {
	embedder model.Embedder
	builder  index.Builder
	log      *logger.Logger
	size     int
	overlap  int
}

func NewIndexer(embedder model.Embedder, builder index.Builder, log *logger.Logger, chunkSize, chunkOverlap int) *Indexer {
	return &Indexer{
		embedder: embedder,
		builder:  builder,
		log:      log,
		size:     chunkSize,
		overlap:  chunkOverlap,
	}
}

// Index stages data under a unique temp name, runs the pipeline and removes
// the staged file whatever the outcome.
func (ix *Indexer) Index(ctx context.Context, sessionID string, data []byte, filename string) (index.Index, int, error) {
	staged := filepath.Join(os.TempDir(), fmt.Sprintf("docchat_%s_%s", uuid.New().String(), filepath.Base(filename)))
	if err := os.WriteFile(staged, data, 0o644); err != nil {
		return nil, 0, fmt.Errorf("stage upload: %w", err)
	}
	defer func() {
		if err := os.Remove(staged); err != nil {
			ix.log.Warn("loader", "failed to remove staged file", map[string]interface{}{
				"path":  staged,
				"error": err.Error(),
			})
		}
	}()

	segments, err := ExtractFile(staged, filename)
	if err != nil {
		return nil, 0, err
	}

	chunks, err := ChunkSegments(segments, ix.size, ix.overlap)
	if err != nil {
		return nil, 0, err
	}

	for i := range chunks {
		vec, err := ix.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return nil, 0, types.ErrGenerationFailed(fmt.Errorf("embed chunk %d: %w", chunks[i].Position, err))
		}
		chunks[i].Embedding = vec
	}

	idx, err := ix.builder.Build(ctx, sessionID, chunks)
	if err != nil {
		return nil, 0, types.ErrGenerationFailed(fmt.Errorf("build index: %w", err))
	}

	ix.log.Info("loader", "document indexed", map[string]interface{}{
		"session_id": sessionID,
		"filename":   filename,
		"segments":   len(segments),
		"chunks":     len(chunks),
	})

	return idx, len(chunks), nil
}

// ChunkSegments splits each segment independently, so chunks never span
// segment boundaries, and numbers the kept chunks globally. Whitespace-only
// pieces are dropped.
func ChunkSegments(segments []Segment, chunkSize, overlap int) ([]types.Chunk, error) {
	var chunks []types.Chunk
	position := 0
	for _, seg := range segments {
		for _, piece := range SplitText(seg.Text, chunkSize, overlap) {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			chunks = append(chunks, types.Chunk{
				Position: position,
				Page:     seg.Page,
				Content:  piece,
			})
			position++
		}
	}
	if len(chunks) == 0 {
		return nil, types.ErrNoChunksProduced()
	}
	return chunks, nil
}
