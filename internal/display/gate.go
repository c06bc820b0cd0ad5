// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package display

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"connext/internal/models"
)

// SettingsSource loads the current settings snapshot.
type SettingsSource interface {
	Settings(ctx context.Context) (models.Settings, error)
}

// PostMetadata looks up a mirrored post. Find returns nil for unknown posts.
type PostMetadata interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// PostTaxonomies lists the taxonomies registered for a post's type together
// with the post's terms in each, in registration order.
type PostTaxonomies interface {
	TaxonomiesOf(ctx context.Context, id uuid.UUID) ([]models.PostTerms, error)
}

// Request is the host's description of the page being rendered.
type Request struct {
	Home      bool
	FrontPage bool
	Taxonomy  string
	TermID    string
	PostID    *uuid.UUID
}

// Decision is the answer returned to the host. Script is only set when the
// script should be rendered.
type Decision struct {
	Enabled bool    `json:"enabled"`
	Script  *Script `json:"script"`
}

// Gate resolves a Request into a Context using the stores, then evaluates it.
type Gate struct {
	settings      SettingsSource
	posts         PostMetadata
	postTerms     PostTaxonomies
	scriptBaseURL string
	metrics       *Metrics
}

// NewGate creates a Gate. scriptBaseURL is prefixed to the script file name
// in returned payloads.
func NewGate(settings SettingsSource, posts PostMetadata, postTerms PostTaxonomies, scriptBaseURL string) *Gate {
	return &Gate{
		settings:      settings,
		posts:         posts,
		postTerms:     postTerms,
		scriptBaseURL: scriptBaseURL,
		metrics:       NewMetrics(),
	}
}

// Decide returns whether the script renders for req. Store failures are
// logged and treated as "disabled"; Decide never fails.
func (g *Gate) Decide(ctx context.Context, req Request) Decision {
	settings, err := g.settings.Settings(ctx)
	if err != nil {
		slog.Warn("display settings unavailable", "error", err)
		g.metrics.observe("unknown", false)
		return Decision{}
	}

	c := g.Classify(ctx, req)
	enabled := Evaluate(c, settings)
	g.metrics.observe(c.Kind(), enabled)

	if !enabled {
		return Decision{}
	}
	script := NewScript(settings, g.scriptBaseURL)
	return Decision{Enabled: true, Script: &script}
}

// Classify builds the evaluation Context for req. A taxonomy archive takes
// precedence over a post ID. Unknown posts produce an empty singular view.
func (g *Gate) Classify(ctx context.Context, req Request) Context {
	c := Context{Home: req.Home, FrontPage: req.FrontPage}

	switch {
	case req.Taxonomy != "":
		c.Archive = &Archive{Taxonomy: req.Taxonomy, TermID: req.TermID}
	case req.PostID != nil:
		c.Singular = g.singular(ctx, *req.PostID)
	}
	return c
}

func (g *Gate) singular(ctx context.Context, id uuid.UUID) *Singular {
	s := &Singular{PostID: id.String()}

	post, err := g.posts.Find(ctx, id)
	if err != nil {
		slog.Warn("display post lookup failed", "post_id", id, "error", err)
		return s
	}
	if post == nil {
		slog.Debug("display post not mirrored", "post_id", id)
		return s
	}
	s.PostType = post.Type
	s.Override = NormalizeOverride(post.Override)
	if s.Override != models.OverrideUnset {
		return s
	}

	terms, err := g.postTerms.TaxonomiesOf(ctx, id)
	if err != nil {
		slog.Warn("display post taxonomies lookup failed", "post_id", id, "error", err)
		return s
	}
	for _, t := range terms {
		s.Taxonomies = append(s.Taxonomies, PostTaxonomy{Name: t.Taxonomy, TermIDs: t.TermIDs})
	}
	return s
}
