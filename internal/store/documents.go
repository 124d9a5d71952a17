package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/provgraph/internal/schema"
)

// Document is one stored serialization of a root entity.
type Document struct {
	ID          string
	ContentHash string
	SchemaHash  string
	Seq         int64
	Content     []byte
}

// WriteDocument stores content as a document of entity id validated
// against schemaHash. Writing identical content for the same id is a
// no-op that returns the stored row.
func (s *Store) WriteDocument(ctx context.Context, id, schemaHash string, content []byte) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("write document: empty id")
	}
	contentHash := schema.HashDocument(content)

	var doc Document
	err := s.txFunc(ctx, func(tx *sql.Tx) error {
		existing, err := scanDocument(tx.QueryRowContext(ctx, `
			SELECT id, content_hash, schema_hash, seq, content
			FROM documents
			WHERE id = ? AND content_hash = ?
		`, id, contentHash))
		if err == nil {
			doc = existing
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		doc = Document{
			ID:          id,
			ContentHash: contentHash,
			SchemaHash:  schemaHash,
			Seq:         s.clock.Next(),
			Content:     content,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (id, content_hash, schema_hash, seq, content)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id, content_hash) DO NOTHING
		`, doc.ID, doc.ContentHash, doc.SchemaHash, doc.Seq, string(doc.Content))
		return err
	})
	if err != nil {
		return Document{}, fmt.Errorf("write document: %w", err)
	}
	return doc, nil
}

// ReadDocument returns the latest stored document of entity id.
func (s *Store) ReadDocument(ctx context.Context, id string) (Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx, `
		SELECT id, content_hash, schema_hash, seq, content
		FROM documents
		WHERE id = ?
		ORDER BY seq DESC, content_hash COLLATE BINARY DESC
		LIMIT 1
	`, id))
	if err != nil {
		return Document{}, fmt.Errorf("read document %s: %w", id, err)
	}
	return doc, nil
}

// DocumentHistory returns every stored document of entity id, oldest first.
func (s *Store) DocumentHistory(ctx context.Context, id string) ([]Document, error) {
	return s.queryDocuments(ctx, `
		SELECT id, content_hash, schema_hash, seq, content
		FROM documents
		WHERE id = ?
		ORDER BY seq ASC, content_hash COLLATE BINARY ASC
	`, id)
}

// ListDocuments returns every document stored against schemaHash, oldest
// first.
func (s *Store) ListDocuments(ctx context.Context, schemaHash string) ([]Document, error) {
	return s.queryDocuments(ctx, `
		SELECT id, content_hash, schema_hash, seq, content
		FROM documents
		WHERE schema_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, schemaHash)
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func scanDocument(row rowScanner) (Document, error) {
	var d Document
	var content string
	err := row.Scan(&d.ID, &d.ContentHash, &d.SchemaHash, &d.Seq, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	d.Content = []byte(content)
	return d, nil
}
