package index

import (
	"context"

	"docchat/types"
)

// Index is a searchable view over one document's chunks. A session owns at
// most one Index and replacing the document swaps the whole value, so
// implementations never merge chunks from two uploads.
type Index interface {
	// Search returns the k nearest chunks by cosine similarity, best first.
	Search(ctx context.Context, vector []float32, k int) ([]types.SearchResult, error)

	// Len reports the number of indexed chunks.
	Len() int

	// Drop releases whatever the index holds outside process memory.
	Drop(ctx context.Context) error
}

// Builder constructs an Index from embedded chunks.
type Builder interface {
	Build(ctx context.Context, sessionID string, chunks []types.Chunk) (Index, error)
}
