// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"connext/internal/display"
	"connext/internal/models"
)

// Decider answers whether the script renders for a page.
type Decider interface {
	Decide(ctx context.Context, req display.Request) display.Decision
}

// Public groups the unauthenticated endpoints queried by the host site.
type Public struct {
	gate Decider
}

// NewPublic creates a new Public handler group.
func NewPublic(gate Decider) *Public {
	return &Public{gate: gate}
}

// Display handles GET /api/display. The query describes the page being
// rendered; the answer is always 200 with a decision, since a store outage
// degrades to "disabled" rather than an error.
func (p *Public) Display(w http.ResponseWriter, r *http.Request) {
	req := ParseDisplayRequest(r.URL.Query())
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, p.gate.Decide(r.Context(), req))
}

// ParseDisplayRequest reads home, front, taxonomy, term and post from q.
// Unparseable flags read as false and a malformed post id is ignored. The
// post is a UUID or the host's numeric post id.
func ParseDisplayRequest(q url.Values) display.Request {
	req := display.Request{
		Home:      queryFlag(q, "home"),
		FrontPage: queryFlag(q, "front"),
		Taxonomy:  q.Get("taxonomy"),
		TermID:    q.Get("term"),
	}
	if raw := q.Get("post"); raw != "" {
		if id, err := models.ParsePostID(raw); err == nil {
			req.PostID = &id
		}
	}
	return req
}

func queryFlag(q url.Values, key string) bool {
	b, _ := strconv.ParseBool(q.Get(key))
	return b
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
