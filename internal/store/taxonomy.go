// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"connext/internal/models"
)

// TaxonomyStore manages the mirrored taxonomies and their terms.
type TaxonomyStore struct {
	db *sql.DB
}

// NewTaxonomyStore returns a new TaxonomyStore.
func NewTaxonomyStore(db *sql.DB) *TaxonomyStore {
	return &TaxonomyStore{db: db}
}

// List returns taxonomies in registration order, each with its terms ordered
// by name. When publicOnly is set, private taxonomies are omitted.
func (s *TaxonomyStore) List(ctx context.Context, publicOnly bool) ([]models.Taxonomy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, label, public, post_types
		FROM taxonomies
		WHERE public OR NOT $1
		ORDER BY position, name
	`, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("list taxonomies: %w", err)
	}
	defer rows.Close()

	// pgtype.Map is not safe for concurrent use; one per call.
	typeMap := pgtype.NewMap()
	var items []models.Taxonomy
	index := make(map[string]int)
	for rows.Next() {
		var t models.Taxonomy
		if err := rows.Scan(&t.Name, &t.Label, &t.Public, typeMap.SQLScanner(&t.PostTypes)); err != nil {
			return nil, fmt.Errorf("scan taxonomy: %w", err)
		}
		index[t.Name] = len(items)
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	termRows, err := s.db.QueryContext(ctx, `SELECT taxonomy, id, name FROM terms ORDER BY taxonomy, name, id`)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer termRows.Close()

	for termRows.Next() {
		var taxonomy string
		var term models.Term
		if err := termRows.Scan(&taxonomy, &term.ID, &term.Name); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		if i, ok := index[taxonomy]; ok {
			items[i].Terms = append(items[i].Terms, term)
		}
	}
	return items, termRows.Err()
}

// Upsert creates or replaces a taxonomy and its full term list in one
// transaction. The registration position of an existing taxonomy is kept.
func (s *TaxonomyStore) Upsert(ctx context.Context, t *models.Taxonomy) error {
	postTypes := t.PostTypes
	if postTypes == nil {
		postTypes = []string{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO taxonomies (name, label, public, post_types, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (name)
		DO UPDATE SET label = EXCLUDED.label, public = EXCLUDED.public,
		              post_types = EXCLUDED.post_types, updated_at = NOW()
	`, t.Name, t.Label, t.Public, postTypes)
	if err != nil {
		return fmt.Errorf("upsert taxonomy %s: %w", t.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM terms WHERE taxonomy = $1`, t.Name); err != nil {
		return fmt.Errorf("clear terms %s: %w", t.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO terms (taxonomy, id, name) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("prepare insert term: %w", err)
	}
	defer stmt.Close()

	for _, term := range t.Terms {
		if _, err := stmt.ExecContext(ctx, t.Name, term.ID, term.Name); err != nil {
			return fmt.Errorf("insert term %s/%s: %w", t.Name, term.ID, err)
		}
	}

	return tx.Commit()
}

// Delete removes a taxonomy and its terms. Returns false if it did not exist.
func (s *TaxonomyStore) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM taxonomies WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("delete taxonomy %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
