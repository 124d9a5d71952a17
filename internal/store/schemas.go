package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/provgraph/internal/schema"
)

// SchemaVersion describes one stored Schema Table.
type SchemaVersion struct {
	Hash        string
	Seq         int64
	Label       string
	RecordCount int
}

// SaveSchema stores the canonical table of records and returns its
// version. Saving a table whose hash is already stored returns the
// existing version unchanged; label is only recorded on first save.
func (s *Store) SaveSchema(ctx context.Context, records []schema.Record, ns *schema.Namespaces, label string) (SchemaVersion, error) {
	table, err := schema.MarshalTable(records, ns)
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("save schema: %w", err)
	}
	hash := schema.HashBytes(table)

	var v SchemaVersion
	err = s.txFunc(ctx, func(tx *sql.Tx) error {
		existing, err := scanSchemaVersion(tx.QueryRowContext(ctx, `
			SELECT hash, seq, label, record_count
			FROM schema_versions
			WHERE hash = ?
		`, hash))
		if err == nil {
			v = existing
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		v = SchemaVersion{Hash: hash, Seq: s.clock.Next(), Label: label, RecordCount: len(records)}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO schema_versions (hash, seq, label, record_count, table_text)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(hash) DO NOTHING
		`, v.Hash, v.Seq, v.Label, v.RecordCount, string(table))
		return err
	})
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("save schema: %w", err)
	}
	return v, nil
}

// LoadSchema decodes the table stored under hash.
func (s *Store) LoadSchema(ctx context.Context, hash string, ns *schema.Namespaces) ([]schema.Record, error) {
	var table string
	err := s.db.QueryRowContext(ctx, `
		SELECT table_text FROM schema_versions WHERE hash = ?
	`, hash).Scan(&table)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schema %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	records, err := schema.ReadTable(bytes.NewReader([]byte(table)), ns)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", hash, err)
	}
	return records, nil
}

// LatestSchema returns the most recently saved version.
func (s *Store) LatestSchema(ctx context.Context) (SchemaVersion, error) {
	v, err := scanSchemaVersion(s.db.QueryRowContext(ctx, `
		SELECT hash, seq, label, record_count
		FROM schema_versions
		ORDER BY seq DESC, hash COLLATE BINARY DESC
		LIMIT 1
	`))
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("latest schema: %w", err)
	}
	return v, nil
}

// ListSchemas returns every stored version, oldest first.
// Returns an empty slice (not nil) when nothing is stored.
func (s *Store) ListSchemas(ctx context.Context) ([]SchemaVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, seq, label, record_count
		FROM schema_versions
		ORDER BY seq ASC, hash COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query schema versions: %w", err)
	}
	defer rows.Close()

	versions := []SchemaVersion{}
	for rows.Next() {
		v, err := scanSchemaVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema versions: %w", err)
	}
	return versions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchemaVersion(row rowScanner) (SchemaVersion, error) {
	var v SchemaVersion
	err := row.Scan(&v.Hash, &v.Seq, &v.Label, &v.RecordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return SchemaVersion{}, ErrNotFound
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("scan schema version: %w", err)
	}
	return v, nil
}
