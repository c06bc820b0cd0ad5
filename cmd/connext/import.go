// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"connext/internal/cache"
	"connext/internal/settings"
	"connext/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import settings from a YAML file",
	Long: `Import settings from a YAML mapping of field IDs to values. Values go
through the same validation as the admin API: rejected fields are reported
and keep their stored value, the rest are saved.

Examples:
  # Import a file
  connext import settings.yaml

  # Import from stdin
  cat settings.yaml | connext import -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	in, err := settings.DecodeYAML(r)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	settingStore := store.NewSettingStore(db)

	// The running server caches settings; drop its snapshot when Valkey is
	// reachable so the import takes effect immediately.
	var invalidator settings.Invalidator
	if client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB); err != nil {
		slog.Warn("valkey unavailable, cached settings expire on their own", "error", err)
	} else {
		defer client.Close()
		invalidator = cache.NewSettingsCache(client, settingStore, cfg.SettingsCacheTTL)
	}

	svc := settings.NewService(store.NewTaxonomyStore(db), settingStore, invalidator, cfg.TaxonomyAllowList())
	res, err := svc.Save(ctx, in)
	if err != nil {
		return err
	}
	return reportImport(cmd.OutOrStdout(), res)
}

// reportImport prints what an import wrote and rejected. Any rejection makes
// the command fail.
func reportImport(out io.Writer, res settings.SaveResult) error {
	fmt.Fprintf(out, "%d settings written\n", res.Written)
	if len(res.Errors) == 0 {
		return nil
	}
	for _, ve := range res.Errors {
		fmt.Fprintf(out, "rejected %s: %s\n", ve.Field, ve.Message)
	}
	return fmt.Errorf("%d values rejected", len(res.Errors))
}
