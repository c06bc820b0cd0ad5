// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"connext/internal/models"
)

// TaxonomyLister lists the mirrored taxonomies.
type TaxonomyLister interface {
	List(ctx context.Context, publicOnly bool) ([]models.Taxonomy, error)
}

// Store reads and upserts stored settings.
type Store interface {
	Settings(ctx context.Context) (models.Settings, error)
	SetMany(ctx context.Context, settings models.Settings) error
}

// Invalidator drops any cached settings snapshot.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service ties the settings form to storage: it builds the form from the
// current taxonomies and persists sanitized submissions.
type Service struct {
	taxonomies TaxonomyLister
	store      Store
	cache      Invalidator
	allow      []string
}

// NewService creates a Service. cache may be nil. allow narrows the public
// taxonomies offered as rules; empty offers all of them.
func NewService(taxonomies TaxonomyLister, store Store, cache Invalidator, allow []string) *Service {
	return &Service{taxonomies: taxonomies, store: store, cache: cache, allow: allow}
}

// Config builds the settings form for the public taxonomies that pass the
// allow-list.
func (s *Service) Config(ctx context.Context) (Config, error) {
	taxonomies, err := s.taxonomies.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list taxonomies: %w", err)
	}
	if len(s.allow) == 0 {
		return Build(taxonomies), nil
	}
	// The lister may hand out a shared slice, so filter into a fresh one.
	kept := make([]models.Taxonomy, 0, len(taxonomies))
	for _, t := range taxonomies {
		if slices.Contains(s.allow, t.Name) {
			kept = append(kept, t)
		}
	}
	return Build(kept), nil
}

// Current returns the stored settings.
func (s *Service) Current(ctx context.Context) (models.Settings, error) {
	return s.store.Settings(ctx)
}

// SaveResult reports the outcome of a Save.
type SaveResult struct {
	// Settings are the stored settings after the save.
	Settings models.Settings
	// Written is the number of fields this save upserted.
	Written int
	// Errors lists the rejected fields.
	Errors ValidationErrors
}

// Save sanitizes in against the current form and upserts the accepted
// fields. Rejected fields keep their stored value.
func (s *Service) Save(ctx context.Context, in Input) (SaveResult, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return SaveResult{}, err
	}

	clean, verrs := Sanitize(in, cfg)

	if len(clean) > 0 {
		if err := s.store.SetMany(ctx, clean); err != nil {
			return SaveResult{}, fmt.Errorf("save settings: %w", err)
		}
		if s.cache != nil {
			s.cache.Invalidate(ctx)
		}
	}

	current, err := s.store.Settings(ctx)
	if err != nil {
		return SaveResult{}, fmt.Errorf("reload settings: %w", err)
	}

	slog.Info("settings saved", "fields", len(clean), "rejected", len(verrs))
	return SaveResult{Settings: current, Written: len(clean), Errors: verrs}, nil
}
