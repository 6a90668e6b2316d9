package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store is a local sqlite-vec backed vector index for uploaded document
// chunks. Chunks are tagged with the owning session so retrieval never leaks
// one user's documents into another's chat.
type Store struct {
	db   *sql.DB
	dims int
	mu   sync.RWMutex
}

const schema = `
CREATE TABLE IF NOT EXISTS doc_chunks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	source     TEXT,
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_doc_chunks_session ON doc_chunks(session_id);
`

// NewStore opens the index at path. dims, when positive, pins the expected
// embedding width so a model switch cannot silently mix vector sizes.
func NewStore(path string, dims int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create vector store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init vector store schema: %w", err)
	}
	logging.L().Info("vector store ready", zap.String("path", path))
	return &Store{db: db, dims: dims}, nil
}

func (s *Store) AddChunks(ctx context.Context, sessionID, source string, contents []string, embeddings [][]float32) error {
	if len(contents) != len(embeddings) {
		return fmt.Errorf("vector store: %d chunks but %d embeddings", len(contents), len(embeddings))
	}
	if s.dims > 0 {
		for i, e := range embeddings {
			if len(e) != s.dims {
				return fmt.Errorf("vector store: embedding %d has %d dims, want %d", i, len(e), s.dims)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin vector insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO doc_chunks (session_id, source, content, embedding) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare vector insert: %w", err)
	}
	defer stmt.Close()

	for i, content := range contents {
		if _, err := stmt.ExecContext(ctx, sessionID, source, content, encodeFloat32Blob(embeddings[i])); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Search returns the topK chunks for the session ordered by cosine distance.
func (s *Store) Search(ctx context.Context, sessionID string, embedding []float32, topK int) ([]domain.DocumentChunk, error) {
	if topK <= 0 {
		topK = 3
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT content, source, vec_distance_cosine(embedding, ?) AS distance
		FROM doc_chunks
		WHERE session_id = ?
		ORDER BY distance ASC
		LIMIT ?`,
		encodeFloat32Blob(embedding), sessionID, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var chunks []domain.DocumentChunk
	for rows.Next() {
		var chunk domain.DocumentChunk
		var distance float64
		if err := rows.Scan(&chunk.Content, &chunk.Source, &distance); err != nil {
			logging.L().Warn("failed to scan chunk row", zap.Error(err))
			continue
		}
		chunk.SessionID = sessionID
		// Cosine distance is 1 - similarity.
		chunk.Similarity = 1.0 - distance
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vector results: %w", err)
	}
	return chunks, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// encodeFloat32Blob serializes a vector in the little-endian layout
// sqlite-vec expects.
func encodeFloat32Blob(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
