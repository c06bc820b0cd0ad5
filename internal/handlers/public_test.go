// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"connext/internal/display"
	"connext/internal/models"
)

// recordingDecider returns a fixed decision and remembers the last request.
type recordingDecider struct {
	decision display.Decision
	got      display.Request
}

func (d *recordingDecider) Decide(_ context.Context, req display.Request) display.Decision {
	d.got = req
	return d.decision
}

func TestParseDisplayRequest(t *testing.T) {
	id := uuid.MustParse("7d1c2b8e-4f3a-4c59-9a51-0d6c7b2e9f10")
	hostID, _ := models.ParsePostID("42")

	tests := []struct {
		name  string
		query string
		want  display.Request
	}{
		{"empty", "", display.Request{}},
		{"home flag", "home=1", display.Request{Home: true}},
		{"front flag", "front=true", display.Request{FrontPage: true}},
		{"unparseable flag is false", "home=yes", display.Request{}},
		{"archive", "taxonomy=category&term=12", display.Request{Taxonomy: "category", TermID: "12"}},
		{"post", "post=" + id.String(), display.Request{PostID: &id}},
		{"host post id", "post=42", display.Request{PostID: &hostID}},
		{"malformed post ignored", "post=forty-two", display.Request{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got := ParseDisplayRequest(q)

			if got.Home != tt.want.Home || got.FrontPage != tt.want.FrontPage ||
				got.Taxonomy != tt.want.Taxonomy || got.TermID != tt.want.TermID {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			switch {
			case tt.want.PostID == nil && got.PostID != nil:
				t.Errorf("PostID: got %v, want nil", *got.PostID)
			case tt.want.PostID != nil && (got.PostID == nil || *got.PostID != *tt.want.PostID):
				t.Errorf("PostID: got %v, want %v", got.PostID, *tt.want.PostID)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	t.Run("enabled with script", func(t *testing.T) {
		dec := &recordingDecider{decision: display.Decision{
			Enabled: true,
			Script:  &display.Script{Source: "Connext.min.js", SiteCode: "ABC", Debug: true},
		}}
		h := NewPublic(dec)

		rr := httptest.NewRecorder()
		h.Display(rr, httptest.NewRequest(http.MethodGet, "/api/display?taxonomy=category&term=3", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if dec.got.Taxonomy != "category" || dec.got.TermID != "3" {
			t.Errorf("decider got %+v", dec.got)
		}

		var body struct {
			Enabled bool `json:"enabled"`
			Script  struct {
				Src      string `json:"src"`
				SiteCode string `json:"siteCode"`
				Debug    bool   `json:"debug"`
			} `json:"script"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !body.Enabled || body.Script.Src != "Connext.min.js" || body.Script.SiteCode != "ABC" || !body.Script.Debug {
			t.Errorf("body: got %s", rr.Body.String())
		}
	})

	t.Run("disabled has null script", func(t *testing.T) {
		h := NewPublic(&recordingDecider{})

		rr := httptest.NewRecorder()
		h.Display(rr, httptest.NewRequest(http.MethodGet, "/api/display?home=1", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["enabled"] != false || body["script"] != nil {
			t.Errorf("body: got %v", body)
		}
		if got := rr.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("Cache-Control: got %q", got)
		}
	})
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("body: got %q", rr.Body.String())
	}
}
