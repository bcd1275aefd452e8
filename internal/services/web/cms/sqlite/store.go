package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/platform/storage/sqlitemigrate"
	"github.com/madrasahweb/site/internal/services/web/cms/sqlite/migrations"
	"github.com/madrasahweb/site/internal/services/web/content"
)

// Store is a SQLite-backed content source.
type Store struct {
	sqlDB *sql.DB
}

var _ content.Source = (*Store)(nil)

// Open opens and migrates the content store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := sqlitemigrate.Open(ctx, path, migrations.FS, "")
	if err != nil {
		return nil, err
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

type documentHeader struct {
	ID   string `json:"_id"`
	Type string `json:"_type"`
}

// Put inserts or replaces one JSON document. The document must carry _id
// and _type.
func (s *Store) Put(ctx context.Context, doc json.RawMessage) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	var header documentHeader
	if err := json.Unmarshal(doc, &header); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	header.ID = strings.TrimSpace(header.ID)
	header.Type = strings.TrimSpace(header.Type)
	if header.ID == "" || content.PublishedID(header.ID) == "" {
		return errors.New("document _id is required")
	}
	if header.Type == "" {
		return fmt.Errorf("document %s: _type is required", header.ID)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, doc); err != nil {
		return fmt.Errorf("compact document %s: %w", header.ID, err)
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO documents (id, type, doc, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    type = excluded.type,
		    doc = excluded.doc,
		    updated_at = excluded.updated_at`,
		header.ID,
		header.Type,
		compact.String(),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put document %s: %w", header.ID, err)
	}
	return nil
}

// PutDocument marshals doc and stores it.
func (s *Store) PutDocument(ctx context.Context, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return s.Put(ctx, payload)
}

// Delete removes one document revision by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("document id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Reset removes every document.
func (s *Store) Reset(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("reset documents: %w", err)
	}
	return nil
}

// Count returns the number of stored revisions, drafts included.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, errors.New("storage is not configured")
	}
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Fetch runs q and returns a JSON object, null, or a JSON array.
func (s *Store) Fetch(ctx context.Context, q content.Query, perspective content.Perspective) (json.RawMessage, error) {
	if s == nil || s.sqlDB == nil {
		return nil, errors.New("storage is not configured")
	}
	stmt, err := render(q, perspective)
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}
	rows, err := s.sqlDB.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Type, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Type, err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", q.Type, err)
	}

	if q.Single {
		if len(docs) == 0 {
			return json.RawMessage("null"), nil
		}
		return docs[0], nil
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode %s results: %w", q.Type, err)
	}
	return payload, nil
}
