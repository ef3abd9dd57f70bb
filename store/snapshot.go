package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"docchat/types"
)

// SessionRecord is the on-disk form of a session. Indexes are not part of
// it: embeddings live in the index backend, so a restored session needs a
// fresh upload before it can answer from a document again.
type SessionRecord struct {
	ID        string       `json:"session_id"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"created_at"`
	History   []types.Turn `json:"history"`
}

// Snapshot persists the session list as a single JSON file using an atomic
// replace, so a crash mid-write never leaves a truncated file behind.
type Snapshot struct {
	mu   sync.Mutex
	path string
}

func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Load reads the snapshot file. A missing file is not an error, it just
// means a first boot.
func (s *Snapshot) Load() ([]SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []SessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", s.path, err)
	}
	return records, nil
}

func (s *Snapshot) Save(records []SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	b = append(b, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
