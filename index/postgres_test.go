package index

import (
	"context"
	"os"
	"testing"

	"docchat/types"

	"github.com/google/uuid"
)

// pgBuilder connects to the database named by POSTGRES_TEST_DSN, skipping
// the test when it is unset. The schema is created on first use, so the DSN
// must point at a database dedicated to tests.
func pgBuilder(t *testing.T) *PostgresBuilder {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	b, err := NewPostgresBuilder(context.Background(), dsn, 2)
	if err != nil {
		t.Fatalf("NewPostgresBuilder() error: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func rowCount(t *testing.T, b *PostgresBuilder, sessionID string) int {
	t.Helper()
	var n int
	err := b.pool.QueryRow(context.Background(),
		"SELECT count(*) FROM session_chunks WHERE session_id = $1", sessionID).Scan(&n)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func TestPostgresReplaceThenDropOldIndex(t *testing.T) {
	b := pgBuilder(t)
	ctx := context.Background()
	session := "test-" + uuid.NewString()

	first, err := b.Build(ctx, session, []types.Chunk{
		{Position: 0, Page: 1, Content: "first document", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("first Build() error: %v", err)
	}

	second, err := b.Build(ctx, session, []types.Chunk{
		{Position: 0, Page: 1, Content: "second document", Embedding: []float32{0, 1}},
	})
	if err != nil {
		t.Fatalf("second Build() error: %v", err)
	}
	t.Cleanup(func() { second.Drop(ctx) })

	if err := first.Drop(ctx); err != nil {
		t.Fatalf("Drop() error: %v", err)
	}

	results, err := second.Search(ctx, []float32{0, 1}, 3)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Content != "second document" {
		t.Fatalf("replacing document not searchable after dropping the replaced index: %+v", results)
	}
	if n := rowCount(t, b, session); n != 1 {
		t.Errorf("table holds %d rows for the session, want 1", n)
	}
}

func TestPostgresFailedBuildKeepsPrevious(t *testing.T) {
	b := pgBuilder(t)
	ctx := context.Background()
	session := "test-" + uuid.NewString()

	first, err := b.Build(ctx, session, []types.Chunk{
		{Position: 0, Page: 1, Content: "keep me", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	t.Cleanup(func() { first.Drop(ctx) })

	// the second chunk cannot go into a vector(2) column, so the build
	// fails after one successful insert
	_, err = b.Build(ctx, session, []types.Chunk{
		{Position: 0, Page: 1, Content: "good", Embedding: []float32{1, 0}},
		{Position: 1, Page: 1, Content: "bad", Embedding: []float32{1, 0, 0}},
	})
	if err == nil {
		t.Fatal("expected Build() to fail on a mismatched vector dimension")
	}

	results, err := first.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Content != "keep me" {
		t.Fatalf("previous document lost after failed rebuild: %+v", results)
	}
	if n := rowCount(t, b, session); n != 1 {
		t.Errorf("table holds %d rows, want only the previous document's 1", n)
	}
}

func TestPostgresDropRemovesRows(t *testing.T) {
	b := pgBuilder(t)
	ctx := context.Background()
	session := "test-" + uuid.NewString()

	idx, err := b.Build(ctx, session, []types.Chunk{
		{Position: 0, Page: 1, Content: "chunk", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if err := idx.Drop(ctx); err != nil {
		t.Fatalf("Drop() error: %v", err)
	}

	if n := rowCount(t, b, session); n != 0 {
		t.Errorf("table holds %d rows after Drop, want 0", n)
	}
	results, err := idx.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("dropped index still returns %d results", len(results))
	}
}
