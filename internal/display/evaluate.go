// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package display decides whether the Connext script is injected on a page.
// Evaluate is the pure rule cascade; Gate wires it to the settings and post
// stores for use by HTTP handlers and the CLI.
package display

import (
	"slices"

	"connext/internal/models"
)

// Taxonomy rule values stored under display_<taxonomy>.
const (
	RuleNo   = "no"
	RuleAll  = "all"
	RuleSome = "some"
)

// Setting keys read by the evaluator.
const (
	KeyDisplayHome  = "display_home"
	KeyDisplayFront = "display_front"
)

// TaxonomyKey returns the settings key holding the rule for a taxonomy.
func TaxonomyKey(taxonomy string) string {
	return "display_" + taxonomy
}

// TermsKey returns the settings key holding a taxonomy's term whitelist.
func TermsKey(taxonomy string) string {
	return "display_" + taxonomy + "_terms"
}

// Archive is a taxonomy archive listing a single term.
type Archive struct {
	Taxonomy string
	TermID   string
}

// PostTaxonomy is one taxonomy registered for a post's type, together with
// the post's term IDs in it (possibly none).
type PostTaxonomy struct {
	Name    string
	TermIDs []string
}

// Singular is a single post or page view.
type Singular struct {
	PostID     string
	PostType   string
	Taxonomies []PostTaxonomy
	Override   string
}

// Context is the host's classification of the page being rendered. Home and
// FrontPage may both be set. Archive and Singular are mutually exclusive in
// practice; if both are set Archive is evaluated first. The zero Context is
// an unclassified page.
type Context struct {
	Home      bool
	FrontPage bool
	Archive   *Archive
	Singular  *Singular
}

// Kind names the branch of the cascade a context falls into, used for
// metrics and logs.
func (c Context) Kind() string {
	switch {
	case c.Home:
		return "home"
	case c.FrontPage:
		return "front"
	case c.Archive != nil:
		return "archive"
	case c.Singular != nil:
		return "singular"
	default:
		return "other"
	}
}

// Evaluate reports whether the script should render for the given page.
// Rules are checked in priority order: home, front page, taxonomy archive,
// then singular post. Missing or malformed settings evaluate to false.
func Evaluate(c Context, s models.Settings) bool {
	if c.Home && s.String(KeyDisplayHome) == "yes" {
		return true
	}
	if c.FrontPage && s.String(KeyDisplayFront) == "yes" {
		return true
	}

	switch {
	case c.Archive != nil:
		return evaluateArchive(c.Archive, s)
	case c.Singular != nil:
		return evaluateSingular(c.Singular, s)
	}
	return false
}

func evaluateArchive(a *Archive, s models.Settings) bool {
	switch s.String(TaxonomyKey(a.Taxonomy)) {
	case RuleAll:
		return true
	case RuleSome:
		return slices.Contains(s.List(TermsKey(a.Taxonomy)), a.TermID)
	default:
		return false
	}
}

// evaluateSingular applies the per-post override, then the taxonomy rules in
// host order. A "no" rule only rules out its own taxonomy; a later taxonomy
// on the same post can still enable the script.
func evaluateSingular(p *Singular, s models.Settings) bool {
	if p.Override != models.OverrideUnset {
		return p.Override == models.OverrideYes
	}

	for _, tax := range p.Taxonomies {
		switch s.String(TaxonomyKey(tax.Name)) {
		case RuleAll:
			if len(tax.TermIDs) > 0 {
				return true
			}
		case RuleSome:
			whitelist := s.List(TermsKey(tax.Name))
			for _, id := range tax.TermIDs {
				if slices.Contains(whitelist, id) {
					return true
				}
			}
		}
	}
	return false
}

// NormalizeOverride maps a submitted per-post value onto yes, no, or unset.
// Anything other than the exact strings "yes" and "no" clears the override.
func NormalizeOverride(v string) string {
	switch v {
	case models.OverrideYes, models.OverrideNo:
		return v
	default:
		return models.OverrideUnset
	}
}
