// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"connext/internal/database"
)

var seedDefaults bool

func init() {
	migrateCmd.Flags().BoolVar(&seedDefaults, "seed", false, "insert default settings when none are stored")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply pending goose migrations to the configured PostgreSQL database.

Examples:
  # Migrate
  connext migrate

  # Migrate and insert default settings into an empty database
  connext migrate --seed`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if seedDefaults {
			if err := database.Seed(db); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
