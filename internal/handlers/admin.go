// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"connext/internal/display"
	"connext/internal/models"
	"connext/internal/settings"
)

// TaxonomyWriter mirrors host taxonomies.
type TaxonomyWriter interface {
	Upsert(ctx context.Context, t *models.Taxonomy) error
	Delete(ctx context.Context, name string) (bool, error)
}

// SettingDeleter removes stored settings by key.
type SettingDeleter interface {
	Delete(ctx context.Context, keys ...string) error
}

// PostWriter mirrors host posts and their display overrides.
type PostWriter interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Upsert(ctx context.Context, p *models.Post, terms []models.PostTerms) error
	SetOverride(ctx context.Context, id uuid.UUID, override string) (bool, error)
}

// Admin groups the token-protected admin API handlers.
type Admin struct {
	settings       *settings.Service
	settingKeys    SettingDeleter
	cache          settings.Invalidator
	taxonomies     TaxonomyWriter
	posts          PostWriter
	allowsOverride func(postType string) bool
}

// NewAdmin creates a new Admin handler group. cache may be nil.
// allowsOverride reports whether a post type accepts a display override.
func NewAdmin(svc *settings.Service, settingKeys SettingDeleter, cache settings.Invalidator, taxonomies TaxonomyWriter, posts PostWriter, allowsOverride func(string) bool) *Admin {
	return &Admin{
		settings:       svc,
		settingKeys:    settingKeys,
		cache:          cache,
		taxonomies:     taxonomies,
		posts:          posts,
		allowsOverride: allowsOverride,
	}
}

// taxonomyName matches host taxonomy slugs, which become part of setting keys.
var taxonomyName = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

const maxPostTypeLen = 20

// --- Settings ---

// SettingsGet handles GET /admin/settings.
func (a *Admin) SettingsGet(w http.ResponseWriter, r *http.Request) {
	current, err := a.settings.Current(r.Context())
	if err != nil {
		slog.Error("load settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": current})
}

type fieldView struct {
	settings.Field
	Display models.Value `json:"display"`
}

type sectionView struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []fieldView `json:"fields"`
}

// SettingsFields handles GET /admin/settings/fields: the settings form with
// the value each widget currently shows.
func (a *Admin) SettingsFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := a.settings.Config(ctx)
	if err != nil {
		slog.Error("build settings form failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build settings form")
		return
	}
	current, err := a.settings.Current(ctx)
	if err != nil {
		slog.Error("load settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load settings")
		return
	}

	sections := make([]sectionView, 0, len(cfg))
	for _, s := range cfg {
		view := sectionView{ID: s.ID, Title: s.Title, Description: s.Description, Fields: make([]fieldView, 0, len(s.Fields))}
		for i := range s.Fields {
			f := s.Fields[i]
			view.Fields = append(view.Fields, fieldView{Field: f, Display: f.Display(current)})
		}
		sections = append(sections, view)
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// SettingsSave handles POST /admin/settings. The body is a JSON object or a
// form. Valid fields are saved even when others are rejected; rejections
// turn the status into 422.
func (a *Admin) SettingsSave(w http.ResponseWriter, r *http.Request) {
	in, err := a.readSettingsInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := a.settings.Save(r.Context(), in)
	if err != nil {
		slog.Error("save settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save settings")
		return
	}

	status := http.StatusOK
	errs := res.Errors.ByField()
	if len(res.Errors) > 0 {
		status = http.StatusUnprocessableEntity
		slog.Warn("settings rejected", "fields", len(errs))
	}
	writeJSON(w, status, map[string]any{"settings": res.Settings, "errors": errs})
}

func (a *Admin) readSettingsInput(w http.ResponseWriter, r *http.Request) (settings.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return settings.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return settings.FromForm(r.PostForm), nil
}

// --- Taxonomies ---

type taxonomyRequest struct {
	Label     string        `json:"label"`
	Public    bool          `json:"public"`
	PostTypes []string      `json:"post_types"`
	Terms     []models.Term `json:"terms"`
}

// TaxonomyPut handles PUT /admin/taxonomies/{name}: replaces the mirrored
// taxonomy and its terms. The settings cache is dropped because the form
// depends on the term list.
func (a *Admin) TaxonomyPut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !taxonomyName.MatchString(name) {
		writeError(w, http.StatusBadRequest, "invalid taxonomy name")
		return
	}

	var req taxonomyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seen := make(map[string]bool, len(req.Terms))
	for _, t := range req.Terms {
		if t.ID == "" {
			writeError(w, http.StatusBadRequest, "term id is required")
			return
		}
		if seen[t.ID] {
			writeError(w, http.StatusBadRequest, "duplicate term id "+t.ID)
			return
		}
		seen[t.ID] = true
	}

	tax := &models.Taxonomy{
		Name:      name,
		Label:     req.Label,
		Public:    req.Public,
		PostTypes: req.PostTypes,
		Terms:     req.Terms,
	}
	if err := a.taxonomies.Upsert(r.Context(), tax); err != nil {
		slog.Error("upsert taxonomy failed", "taxonomy", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save taxonomy")
		return
	}
	a.invalidate(r.Context())

	slog.Info("taxonomy synced", "taxonomy", name, "terms", len(tax.Terms))
	writeJSON(w, http.StatusOK, tax)
}

// TaxonomyDelete handles DELETE /admin/taxonomies/{name}. The taxonomy's
// display rule and whitelist settings go with it.
func (a *Admin) TaxonomyDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	ok, err := a.taxonomies.Delete(ctx, name)
	if err != nil {
		slog.Error("delete taxonomy failed", "taxonomy", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete taxonomy")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "taxonomy not found")
		return
	}

	if err := a.settingKeys.Delete(ctx, display.TaxonomyKey(name), display.TermsKey(name)); err != nil {
		slog.Error("delete taxonomy settings failed", "taxonomy", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete taxonomy settings")
		return
	}
	a.invalidate(ctx)

	slog.Info("taxonomy deleted", "taxonomy", name)
	w.WriteHeader(http.StatusNoContent)
}

// --- Posts ---

type postRequest struct {
	Type       string             `json:"type"`
	Override   *string            `json:"override"`
	Taxonomies []models.PostTerms `json:"taxonomies"`
}

// PostPut handles PUT /admin/posts/{id}: mirrors a post's type and term
// assignments. An existing override is kept unless the body sets one.
func (a *Admin) PostPut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := postID(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" || len(req.Type) > maxPostTypeLen {
		writeError(w, http.StatusBadRequest, "post type is required (max 20 characters)")
		return
	}
	if req.Override != nil && !a.allowsOverride(req.Type) {
		writeError(w, http.StatusUnprocessableEntity, "post type "+req.Type+" does not accept a display override")
		return
	}

	if err := a.posts.Upsert(ctx, &models.Post{ID: id, Type: req.Type}, req.Taxonomies); err != nil {
		slog.Error("upsert post failed", "post_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save post")
		return
	}
	if req.Override != nil {
		if _, err := a.posts.SetOverride(ctx, id, display.NormalizeOverride(*req.Override)); err != nil {
			slog.Error("set override failed", "post_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "could not save override")
			return
		}
	}

	post, err := a.posts.Find(ctx, id)
	if err != nil || post == nil {
		slog.Error("reload post failed", "post_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type overrideRequest struct {
	Value string `json:"value"`
}

// PostOverridePut handles PUT /admin/posts/{id}/override. Anything other
// than "yes" or "no" clears the override.
func (a *Admin) PostOverridePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := postID(w, r)
	if !ok {
		return
	}

	var req overrideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Find(ctx, id)
	if err != nil {
		slog.Error("find post failed", "post_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load post")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if !a.allowsOverride(post.Type) {
		writeError(w, http.StatusUnprocessableEntity, "post type "+post.Type+" does not accept a display override")
		return
	}

	value := display.NormalizeOverride(req.Value)
	found, err := a.posts.SetOverride(ctx, id, value)
	if err != nil {
		slog.Error("set override failed", "post_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save override")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	slog.Info("display override set", "post_id", id, "override", value)
	writeJSON(w, http.StatusOK, map[string]string{"id": id.String(), "override": value})
}

func postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := models.ParsePostID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return uuid.Nil, false
	}
	return id, true
}

func (a *Admin) invalidate(ctx context.Context) {
	if a.cache != nil {
		a.cache.Invalidate(ctx)
	}
}
