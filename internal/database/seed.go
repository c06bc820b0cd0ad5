// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// defaultSettings mirrors the select defaults of the settings form, so a
// fresh install renders the script nowhere.
var defaultSettings = map[string]string{
	"debug":         `"true"`,
	"environment":   `"test"`,
	"silent_mode":   `"false"`,
	"display_home":  `"no"`,
	"display_front": `"no"`,
}

// Seed stores the default settings when none exist yet.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM connext_settings").Scan(&count); err != nil {
		return fmt.Errorf("seed check settings: %w", err)
	}

	if count > 0 {
		slog.Info("settings already seeded, skipping")
		return nil
	}

	for key, value := range defaultSettings {
		_, err := db.Exec(`
			INSERT INTO connext_settings (key, value)
			VALUES ($1, $2::jsonb)
			ON CONFLICT (key) DO NOTHING
		`, key, value)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	slog.Info("database seeded with default settings", "count", len(defaultSettings))
	return nil
}
