// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory stores and a router for the admin
// handler tests.
package handlers

import (
	"context"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"connext/internal/models"
	"connext/internal/settings"
)

// memSettings is an in-memory SettingStore.
type memSettings struct {
	mu sync.Mutex
	s  models.Settings
}

func (m *memSettings) Settings(context.Context) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.Merge(nil), nil
}

func (m *memSettings) SetMany(_ context.Context, s models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = m.s.Merge(s)
	return nil
}

func (m *memSettings) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.s, k)
	}
	return nil
}

// memTaxonomies is an in-memory TaxonomyStore.
type memTaxonomies struct {
	mu   sync.Mutex
	list []models.Taxonomy
}

func (m *memTaxonomies) List(_ context.Context, publicOnly bool) ([]models.Taxonomy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Taxonomy
	for _, t := range m.list {
		if !publicOnly || t.Public {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTaxonomies) Upsert(_ context.Context, t *models.Taxonomy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].Name == t.Name {
			m.list[i] = *t
			return nil
		}
	}
	m.list = append(m.list, *t)
	return nil
}

func (m *memTaxonomies) Delete(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.list)
	m.list = slices.DeleteFunc(m.list, func(t models.Taxonomy) bool { return t.Name == name })
	return len(m.list) != n, nil
}

// memPosts is an in-memory PostStore.
type memPosts struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post
	terms map[uuid.UUID][]models.PostTerms
}

func newMemPosts() *memPosts {
	return &memPosts{posts: map[uuid.UUID]*models.Post{}, terms: map[uuid.UUID][]models.PostTerms{}}
}

func (m *memPosts) Find(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) Upsert(_ context.Context, p *models.Post, terms []models.PostTerms) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.posts[p.ID]; ok {
		existing.Type = p.Type
	} else {
		cp := *p
		m.posts[p.ID] = &cp
	}
	m.terms[p.ID] = terms
	return nil
}

func (m *memPosts) SetOverride(_ context.Context, id uuid.UUID, v string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return false, nil
	}
	p.Override = v
	return true, nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

// adminFixture bundles an Admin handler with its in-memory stores.
type adminFixture struct {
	settings   *memSettings
	taxonomies *memTaxonomies
	posts      *memPosts
	cache      *countingInvalidator
	router     chi.Router
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	f := &adminFixture{
		settings: &memSettings{s: models.Settings{}},
		taxonomies: &memTaxonomies{list: []models.Taxonomy{
			{Name: "category", Label: "Categories", Public: true, PostTypes: []string{"post"}, Terms: []models.Term{{ID: "3", Name: "News"}, {ID: "5", Name: "Sport"}}},
			{Name: "internal", Public: false, Terms: []models.Term{{ID: "1", Name: "Hidden"}}},
		}},
		posts: newMemPosts(),
		cache: &countingInvalidator{},
	}

	svc := settings.NewService(f.taxonomies, f.settings, f.cache, nil)
	allows := func(pt string) bool { return pt == "post" || pt == "page" }
	a := NewAdmin(svc, f.settings, f.cache, f.taxonomies, f.posts, allows)

	r := chi.NewRouter()
	r.Get("/admin/settings", a.SettingsGet)
	r.Get("/admin/settings/fields", a.SettingsFields)
	r.Post("/admin/settings", a.SettingsSave)
	r.Put("/admin/taxonomies/{name}", a.TaxonomyPut)
	r.Delete("/admin/taxonomies/{name}", a.TaxonomyDelete)
	r.Put("/admin/posts/{id}", a.PostPut)
	r.Put("/admin/posts/{id}/override", a.PostOverridePut)
	f.router = r

	return f
}

func (f *adminFixture) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}
