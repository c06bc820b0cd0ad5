// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Taxonomy is a named classification system mirrored from the host site
// (category, post_tag, or any custom taxonomy).
type Taxonomy struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Public    bool     `json:"public"`
	PostTypes []string `json:"post_types"`
	Terms     []Term   `json:"terms"`
}

// Term is a single member of a taxonomy. IDs are the host's term IDs and are
// always handled as strings.
type Term struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TermIDs returns the IDs of the taxonomy's terms in order.
func (t *Taxonomy) TermIDs() []string {
	ids := make([]string, 0, len(t.Terms))
	for _, term := range t.Terms {
		ids = append(ids, term.ID)
	}
	return ids
}
