package index

import (
	"context"
	"fmt"

	"docchat/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresBuilder stores chunk vectors in one pgvector table shared by all
// sessions. Every build writes rows tagged with a fresh build id and never
// touches rows of other builds; the previous document's rows stay until the
// released index is dropped. The similarity ordering matches MemoryIndex:
// 1-(a <=> b) is the cosine similarity.
type PostgresBuilder struct {
	pool *pgxpool.Pool
	dim  int
}

var _ Builder = &PostgresBuilder{}

func NewPostgresBuilder(ctx context.Context, connStr string, dim int) (*PostgresBuilder, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	b := &PostgresBuilder{pool: pool, dim: dim}
	if err := b.createChunkTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

func (b *PostgresBuilder) createChunkTables(ctx context.Context) error {
	query := fmt.Sprintf(`
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS session_chunks (
        id UUID PRIMARY KEY,
        session_id TEXT NOT NULL,
        build_id UUID NOT NULL,
        position INT NOT NULL,
        page INT NOT NULL,
        content TEXT NOT NULL,
        embedding vector(%d)
    );

	CREATE INDEX IF NOT EXISTS idx_session_chunks_embedding ON session_chunks USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_session_chunks_session_id ON session_chunks(session_id);
    `, b.dim)
	_, err := b.pool.Exec(ctx, query)
	return err
}

// Build inserts the chunks as one new generation in a single transaction.
// A failed insert rolls everything back, leaving whatever document the
// session had before fully intact and without partial rows.
func (b *PostgresBuilder) Build(ctx context.Context, sessionID string, chunks []types.Chunk) (Index, error) {
	buildID := uuid.New()

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin build: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
    INSERT INTO session_chunks (id, session_id, build_id, position, page, content, embedding)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	for _, c := range chunks {
		_, err := tx.Exec(ctx, query,
			uuid.New(), sessionID, buildID, c.Position, c.Page, c.Content, pgvector.NewVector(c.Embedding),
		)
		if err != nil {
			return nil, fmt.Errorf("save chunk %d: %w", c.Position, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit chunks: %w", err)
	}

	return &postgresIndex{pool: b.pool, sessionID: sessionID, buildID: buildID, size: len(chunks)}, nil
}

// Close closes the shared connection pool. Indexes built by this builder
// stop working afterwards.
func (b *PostgresBuilder) Close() error {
	if b.pool != nil {
		b.pool.Close()
	}
	return nil
}

// postgresIndex reads exactly the generation of rows its build inserted.
// Dropping it removes that generation only, so dropping a replaced index
// cannot delete the document that superseded it.
type postgresIndex struct {
	pool      *pgxpool.Pool
	sessionID string
	buildID   uuid.UUID
	size      int
}

var _ Index = &postgresIndex{}

func (p *postgresIndex) Search(ctx context.Context, queryVec []float32, k int) ([]types.SearchResult, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	vector := pgvector.NewVector(queryVec)

	query := `
		SELECT sc.position, sc.page, sc.content,
		       1-(sc.embedding <=> $1) as score
		FROM session_chunks sc
		WHERE sc.session_id = $2 AND sc.build_id = $3 AND sc.embedding IS NOT NULL
		ORDER BY sc.embedding <=> $1, sc.position
		LIMIT $4
	`
	rows, err := p.pool.Query(ctx, query, vector, p.sessionID, p.buildID, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []types.SearchResult
	for rows.Next() {
		var r types.SearchResult
		if err := rows.Scan(&r.Chunk.Position, &r.Chunk.Page, &r.Chunk.Content, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (p *postgresIndex) Len() int {
	return p.size
}

func (p *postgresIndex) Drop(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM session_chunks WHERE session_id = $1 AND build_id = $2", p.sessionID, p.buildID)
	return err
}
