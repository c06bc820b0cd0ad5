// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"connext/internal/models"
)

// SettingStore persists the Connext settings as JSON values keyed by field ID.
type SettingStore struct {
	db *sql.DB
}

// NewSettingStore returns a new SettingStore backed by the given database.
func NewSettingStore(db *sql.DB) *SettingStore {
	return &SettingStore{db: db}
}

// Settings returns every stored setting.
func (s *SettingStore) Settings(ctx context.Context) (models.Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM connext_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(models.Settings)
	for rows.Next() {
		var k string
		var raw []byte
		if err := rows.Scan(&k, &raw); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		var v models.Value
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode setting %s: %w", k, err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// SetMany upserts the given settings in a single transaction. Keys that are
// not present are left untouched.
func (s *SettingStore) SetMany(ctx context.Context, settings models.Settings) error {
	if len(settings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO connext_settings (key, value, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert setting: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for k, v := range settings {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode setting %s: %w", k, err)
		}
		if _, err := stmt.ExecContext(ctx, k, string(raw), now); err != nil {
			return fmt.Errorf("upsert setting %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// Delete removes settings by key. Used when a taxonomy is retired.
func (s *SettingStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM connext_settings WHERE key = $1`, k); err != nil {
			return fmt.Errorf("delete setting %s: %w", k, err)
		}
	}
	return nil
}
