// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Per-post display overrides. An unset override defers to the taxonomy rules.
const (
	OverrideYes   = "yes"
	OverrideNo    = "no"
	OverrideUnset = ""
)

// Post is the service's mirror of a host content item. Only the data the
// display rules need is kept.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Override  string    `json:"override"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasOverride returns true if the post carries an explicit yes/no setting.
func (p *Post) HasOverride() bool {
	return p.Override != OverrideUnset
}

// PostTerms is a post's term assignment within one taxonomy.
type PostTerms struct {
	Taxonomy string   `json:"taxonomy"`
	TermIDs  []string `json:"term_ids"`
}

// postNamespace scopes the UUIDs derived from numeric host post ids.
var postNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("connext.post"))

// ErrInvalidPostID is returned by ParsePostID for an id that is neither a
// UUID nor a positive integer.
var ErrInvalidPostID = errors.New("invalid post id")

// ParsePostID accepts a UUID or a numeric host post id. Numeric ids map to
// a stable name-based UUID, so hosts can address posts by their own ids.
func ParsePostID(raw string) (uuid.UUID, error) {
	if id, err := uuid.Parse(raw); err == nil {
		return id, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return uuid.Nil, ErrInvalidPostID
	}
	return uuid.NewSHA1(postNamespace, []byte(strconv.FormatUint(n, 10))), nil
}
