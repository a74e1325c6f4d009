package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/resumerag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithDimensions sets the embedding dimension chunks must have.
func WithDimensions(d int) Option {
	return func(s *Store) {
		if d > 0 {
			s.dimensions = d
		}
	}
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.resumerag/data/metadata.db.
func NewStore(dataDir string, opts ...Option) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".resumerag", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: domain.DefaultAppSettings().Embedding.Dimensions,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Dimensions returns the embedding dimension enforced on chunks.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// CacheStore returns a CacheStore interface backed by this store.
func (s *Store) CacheStore() driven.CacheStore {
	return &cacheStore{store: s}
}

// IdempotencyStore returns an IdempotencyStore interface backed by this store.
func (s *Store) IdempotencyStore() driven.IdempotencyStore {
	return &idempotencyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// checkDimensions rejects chunk embeddings of the wrong length.
func (s *Store) checkDimensions(chunks []domain.Chunk) error {
	for _, chunk := range chunks {
		if chunk.HasEmbedding() && len(chunk.Embedding) != s.dimensions {
			return fmt.Errorf("%w: chunk %s has %d, store expects %d",
				domain.ErrEmbeddingDimensionMismatch, chunk.ID, len(chunk.Embedding), s.dimensions)
		}
	}
	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, filename, file_hash, parsing_hash, content, metadata,
	status, failure_reason, owner_id, visibility, uploaded_at`

const chunkColumns = `c.id, c.document_id, c.page, c.start_offset, c.end_offset,
	c.source_start, c.source_end, c.text, c.embedding`

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			file_hash = excluded.file_hash,
			parsing_hash = excluded.parsing_hash,
			content = excluded.content,
			metadata = excluded.metadata,
			status = excluded.status,
			failure_reason = excluded.failure_reason,
			owner_id = excluded.owner_id,
			visibility = excluded.visibility
	`, doc.ID, doc.Filename, doc.FileHash, doc.ParsingHash, doc.Content,
		string(metadataJSON), string(doc.Status), doc.FailureReason,
		doc.OwnerID, string(doc.Visibility), doc.UploadedAt.UTC())

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: documents.file_hash") {
			return fmt.Errorf("%w: file hash %s", domain.ErrAlreadyExists, doc.FileHash)
		}
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// UpdateStatus sets a document's lifecycle status and failure reason.
func (s *documentStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE documents SET status = ?, failure_reason = ? WHERE id = ?",
		string(status), reason, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveChunks stores chunks for a document.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if err := s.store.checkDimensions(chunks); err != nil {
		return err
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, page, start_offset, end_offset,
			source_start, source_end, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			page = excluded.page,
			start_offset = excluded.start_offset,
			end_offset = excluded.end_offset,
			source_start = excluded.source_start,
			source_end = excluded.source_end,
			text = excluded.text,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Page,
			chunk.StartOffset, chunk.EndOffset, chunk.SourceStart, chunk.SourceEnd,
			chunk.Text, float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

// FindByFileHash retrieves the document ingested from identical bytes.
func (s *documentStore) FindByFileHash(ctx context.Context, fileHash string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE file_hash = ?", fileHash)
	return scanDocument(row)
}

// GetChunks retrieves all chunks for a document.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks c WHERE c.document_id = ?
		ORDER BY c.page, c.start_offset
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// GetChunksForDocuments retrieves chunks for a set of documents.
func (s *documentStore) GetChunksForDocuments(ctx context.Context, documentIDs []string) (map[string][]domain.Chunk, error) {
	result := make(map[string][]domain.Chunk, len(documentIDs))
	if len(documentIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(documentIDs)), ",")
	args := make([]any, len(documentIDs))
	for i, id := range documentIDs {
		args[i] = id
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks c WHERE c.document_id IN (`+placeholders+`)
		ORDER BY c.document_id, c.page, c.start_offset
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}
	for _, chunk := range chunks {
		result[chunk.DocumentID] = append(result[chunk.DocumentID], chunk)
	}
	return result, nil
}

// ListEmbeddedChunks returns every embedded chunk of a completed document.
func (s *documentStore) ListEmbeddedChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks c JOIN documents d ON d.id = c.document_id
		WHERE d.status = ? AND c.embedding IS NOT NULL
		ORDER BY c.id
	`, string(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("querying embedded chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// DeleteDocument removes a document and its chunks.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns documents matching the filter, newest first.
func (s *documentStore) ListDocuments(ctx context.Context, filter driven.DocumentFilter) ([]domain.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents"
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.OwnerID != "" {
		conds = append(conds, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Visibility != "" {
		conds = append(conds, "visibility = ?")
		args = append(args, string(filter.Visibility))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY uploaded_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ==================== Helper Functions ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanDocument scans a single document row.
func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON, status, visibility string

	if err := row.Scan(&doc.ID, &doc.Filename, &doc.FileHash, &doc.ParsingHash, &doc.Content,
		&metadataJSON, &status, &doc.FailureReason, &doc.OwnerID, &visibility,
		&doc.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	doc.Visibility = domain.Visibility(visibility)
	doc.UploadedAt = doc.UploadedAt.UTC()

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}

// scanChunks scans all chunk rows.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Page,
			&chunk.StartOffset, &chunk.EndOffset, &chunk.SourceStart, &chunk.SourceEnd,
			&chunk.Text, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}
