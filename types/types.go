package types

import (
	"time"
)

// Answering modes accepted on the wire.
const (
	ModeDocumentOnly = "document_only"
	ModeHybrid       = "hybrid"
	ModeOpen         = "open"
)

func KnownMode(mode string) bool {
	switch mode {
	case ModeDocumentOnly, ModeHybrid, ModeOpen:
		return true
	}
	return false
}

// Turn is one completed question/answer exchange. History is append-only,
// so a Turn is never mutated after it is recorded.
type Turn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	Mode      string    `json:"mode"`
}

// Chunk is a contiguous slice of extracted document text. Position is the
// global chunk ordinal within the document, Page the 1-based source segment
// the text came from.
type Chunk struct {
	Position  int       `json:"position"`
	Page      int       `json:"page"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
}

type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// SessionInfo is the listing projection of a session.
type SessionInfo struct {
	ID          string    `json:"session_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	Turns       int       `json:"turns"`
	HasDocument bool      `json:"has_document"`
}
