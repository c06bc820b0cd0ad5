// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"connext/internal/models"
)

// PostStore manages mirrored posts, their display overrides and their term
// assignments.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Find retrieves a post by ID. Returns nil if not found.
func (s *PostStore) Find(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, override, updated_at FROM posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.Type, &p.Override, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return &p, nil
}

// Upsert creates or updates a post's type and replaces its term assignments.
// An existing override is kept.
func (s *PostStore) Upsert(ctx context.Context, p *models.Post, terms []models.PostTerms) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (id, type, override, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id)
		DO UPDATE SET type = EXCLUDED.type, updated_at = NOW()
	`, p.ID, p.Type, p.Override)
	if err != nil {
		return fmt.Errorf("upsert post %s: %w", p.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_terms WHERE post_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear post terms %s: %w", p.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO post_terms (post_id, taxonomy, term_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare insert post term: %w", err)
	}
	defer stmt.Close()

	for _, pt := range terms {
		for _, termID := range pt.TermIDs {
			if _, err := stmt.ExecContext(ctx, p.ID, pt.Taxonomy, termID); err != nil {
				return fmt.Errorf("insert post term %s/%s: %w", pt.Taxonomy, termID, err)
			}
		}
	}

	return tx.Commit()
}

// SetOverride stores a post's display override. Returns false if the post
// does not exist.
func (s *PostStore) SetOverride(ctx context.Context, id uuid.UUID, override string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET override = $1, updated_at = NOW() WHERE id = $2`, override, id)
	if err != nil {
		return false, fmt.Errorf("set post override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TaxonomiesOf returns every taxonomy registered for the post's type, in
// registration order, with the post's term IDs in each. Taxonomies in which
// the post has no terms are included with an empty list.
func (s *PostStore) TaxonomiesOf(ctx context.Context, id uuid.UUID) ([]models.PostTerms, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, pt.term_id
		FROM posts p
		JOIN taxonomies t ON p.type = ANY(t.post_types)
		LEFT JOIN post_terms pt ON pt.post_id = p.id AND pt.taxonomy = t.name
		WHERE p.id = $1
		ORDER BY t.position, t.name, pt.term_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list post taxonomies: %w", err)
	}
	defer rows.Close()

	var out []models.PostTerms
	for rows.Next() {
		var taxonomy string
		var termID sql.NullString
		if err := rows.Scan(&taxonomy, &termID); err != nil {
			return nil, fmt.Errorf("scan post taxonomy: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Taxonomy != taxonomy {
			out = append(out, models.PostTerms{Taxonomy: taxonomy, TermIDs: []string{}})
		}
		if termID.Valid {
			last := &out[len(out)-1]
			last.TermIDs = append(last.TermIDs, termID.String)
		}
	}
	return out, rows.Err()
}
