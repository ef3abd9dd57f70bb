package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"docchat/types"
)

// MemoryIndex keeps chunks and their vectors in process memory. The chunk
// slice is never mutated after Build, so concurrent Search calls are safe.
type MemoryIndex struct {
	chunks []types.Chunk
}

var _ Index = &MemoryIndex{}

type MemoryBuilder struct{}

var _ Builder = MemoryBuilder{}

func NewMemoryBuilder() MemoryBuilder {
	return MemoryBuilder{}
}

func (MemoryBuilder) Build(_ context.Context, _ string, chunks []types.Chunk) (Index, error) {
	owned := make([]types.Chunk, len(chunks))
	copy(owned, chunks)
	return &MemoryIndex{chunks: owned}, nil
}

func (m *MemoryIndex) Search(_ context.Context, vector []float32, k int) ([]types.SearchResult, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	results := make([]types.SearchResult, 0, len(m.chunks))
	for _, c := range m.chunks {
		results = append(results, types.SearchResult{
			Chunk: c,
			Score: cosineSimilarity(vector, c.Embedding),
		})
	}

	// stable sort keeps document order for equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *MemoryIndex) Len() int {
	return len(m.chunks)
}

func (m *MemoryIndex) Drop(context.Context) error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
