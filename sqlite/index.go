package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fwojciec/docchat"
)

// Compile-time interface verification.
var _ docchat.VectorIndex = (*Index)(nil)

// Index implements docchat.VectorIndex with brute-force cosine similarity
// over vectors stored in SQLite.
type Index struct {
	db   *DB
	name string
}

// NewIndex returns the index called name in db.
func NewIndex(db *DB, name string) *Index {
	return &Index{db: db, name: name}
}

// Name returns the index name.
func (i *Index) Name() string {
	return i.name
}

// Ensure creates the index with the given dimension if it does not exist.
func (i *Index) Ensure(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return docchat.Errorf(docchat.EINVALID, "dimension must be positive, got %d", dimension)
	}

	existing, err := i.dimension(ctx)
	if err == nil {
		if existing != dimension {
			return docchat.Errorf(docchat.EINVALID, "index %s has dimension %d, got %d", i.name, existing, dimension)
		}
		return nil
	}
	if docchat.ErrorCode(err) != docchat.ENOTFOUND {
		return err
	}

	_, err = i.db.ExecContext(ctx, `
		INSERT INTO indexes (name, dimension, created_at)
		VALUES (?, ?, ?)
	`, i.name, dimension, time.Now().UTC().Format(time.RFC3339))
	return err
}

// dimension returns the stored dimension, or ENOTFOUND if the index has not
// been created.
func (i *Index) dimension(ctx context.Context) (int, error) {
	var dim int
	err := i.db.QueryRowContext(ctx, `SELECT dimension FROM indexes WHERE name = ?`, i.name).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, docchat.Errorf(docchat.ENOTFOUND, "index %s not found", i.name)
	}
	return dim, err
}

// Upsert writes records in one transaction, replacing any with the same ID.
func (i *Index) Upsert(ctx context.Context, records []*docchat.Record) error {
	if len(records) == 0 {
		return nil
	}

	dim, err := i.dimension(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.ID == "" {
			return docchat.Errorf(docchat.EINVALID, "record id required")
		}
		if len(r.Vector) != dim {
			return docchat.Errorf(docchat.EINVALID, "record %s has dimension %d, index %s has %d", r.ID, len(r.Vector), i.name, dim)
		}
	}

	tx, err := i.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO records (index_name, id, text, source, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, i.name, r.ID, r.Text, r.Source, encodeVector(r.Vector), now); err != nil {
			return fmt.Errorf("upsert record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Search scores every record in the index against vector and returns the
// k best, highest cosine similarity first. Ties keep insertion order.
func (i *Index) Search(ctx context.Context, vector []float32, k int) ([]docchat.SearchResult, error) {
	if k <= 0 {
		return nil, docchat.Errorf(docchat.EINVALID, "k must be positive, got %d", k)
	}
	dim, err := i.dimension(ctx)
	if err != nil {
		return nil, err
	}
	if len(vector) != dim {
		return nil, docchat.Errorf(docchat.EINVALID, "query has dimension %d, index %s has %d", len(vector), i.name, dim)
	}

	rows, err := i.db.QueryContext(ctx, `
		SELECT id, text, source, embedding
		FROM records
		WHERE index_name = ?
		ORDER BY rowid
	`, i.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []docchat.SearchResult
	for rows.Next() {
		var (
			id, text, source string
			blob             []byte
		)
		if err := rows.Scan(&id, &text, &source, &blob); err != nil {
			return nil, err
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}
		results = append(results, docchat.SearchResult{
			Text:   text,
			Source: source,
			Score:  float32(cosine(vector, vec)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b docchat.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of records in the index.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE index_name = ?`, i.name).Scan(&n)
	return n, err
}
