// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"connext/internal/display"
	"connext/internal/models"
	"connext/internal/store"
)

type evaluateFlags struct {
	home     bool
	front    bool
	taxonomy string
	term     string
	post     string
}

var evalFlags evaluateFlags

func init() {
	f := evaluateCmd.Flags()
	f.BoolVar(&evalFlags.home, "home", false, "the page is the blog posts index")
	f.BoolVar(&evalFlags.front, "front", false, "the page is the site front page")
	f.StringVar(&evalFlags.taxonomy, "taxonomy", "", "taxonomy of the archive being viewed")
	f.StringVar(&evalFlags.term, "term", "", "term id of the archive being viewed")
	f.StringVar(&evalFlags.post, "post", "", "id of the post being viewed (UUID or host post id)")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Show the display decision for a page",
	Long: `Evaluate the stored display rules for a page and print the decision as
JSON, including the script payload when the script would render. Settings
are read from the database, bypassing the cache.

Examples:
  # Blog index
  connext evaluate --home

  # Category archive
  connext evaluate --taxonomy category --term 12

  # Single post, by UUID or host post id
  connext evaluate --post 7d1c2b8e-4f3a-4c59-9a51-0d6c7b2e9f10
  connext evaluate --post 1234`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

// evaluateRequest turns the command flags into a display request.
func evaluateRequest() (display.Request, error) {
	req := display.Request{
		Home:      evalFlags.home,
		FrontPage: evalFlags.front,
		Taxonomy:  evalFlags.taxonomy,
		TermID:    evalFlags.term,
	}
	if evalFlags.term != "" && evalFlags.taxonomy == "" {
		return req, fmt.Errorf("--term needs --taxonomy")
	}
	if evalFlags.post != "" {
		id, err := models.ParsePostID(evalFlags.post)
		if err != nil {
			return req, fmt.Errorf("--post: %w", err)
		}
		req.PostID = &id
	}
	return req, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := evaluateRequest()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	posts := store.NewPostStore(db)
	gate := display.NewGate(store.NewSettingStore(db), posts, posts, cfg.ScriptBaseURL)

	result := struct {
		Kind string `json:"kind"`
		display.Decision
	}{
		Kind:     gate.Classify(ctx, req).Kind(),
		Decision: gate.Decide(ctx, req),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
