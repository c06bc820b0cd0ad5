// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"connext/internal/models"
)

var (
	alphanumericRe      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	alphanumericCommaRe = regexp.MustCompile(`^[A-Za-z0-9,]+$`)

	// stripTags removes all markup from free text.
	stripTags = bluemonday.StrictPolicy()
)

// Input is a raw settings submission keyed by field ID.
type Input map[string]models.Value

// Sanitize validates input against cfg and returns the values that may be
// persisted. Submitted keys that are not configured fields, or whose field
// has no validation, are dropped silently. Rejected fields are absent from
// the result and reported in the returned errors; for list fields only the
// invalid elements are dropped.
func Sanitize(input Input, cfg Config) (models.Settings, ValidationErrors) {
	out := make(models.Settings)
	var errs ValidationErrors

	for _, f := range cfg.Fields() {
		v, ok := input[f.ID]
		if !ok || f.Validation == "" {
			continue
		}

		switch f.Validation {
		case Alphanumeric:
			s := v.Str()
			if v.IsList() || (s != "" && !alphanumericRe.MatchString(s)) {
				errs = append(errs, alnumError(f))
				continue
			}
			out[f.ID] = models.String(sanitizeText(s))

		case AlphanumericArray:
			if !v.IsList() {
				errs = append(errs, alnumError(f))
				continue
			}
			kept := make([]string, 0, len(v.Items()))
			for _, item := range v.Items() {
				if !alphanumericRe.MatchString(item) {
					errs = append(errs, alnumError(f))
					continue
				}
				kept = append(kept, sanitizeText(item))
			}
			out[f.ID] = models.List(kept...)

		case AlphanumericComma:
			if v.IsList() || !alphanumericCommaRe.MatchString(v.Str()) {
				errs = append(errs, ValidationError{
					Field:   f.ID,
					Message: f.Title + " can only contain letters, numbers or commas",
				})
				continue
			}
			out[f.ID] = models.String(sanitizeText(v.Str()))

		default:
			if v.IsList() {
				items := make([]string, 0, len(v.Items()))
				for _, item := range v.Items() {
					items = append(items, sanitizeText(item))
				}
				out[f.ID] = models.List(items...)
				continue
			}
			out[f.ID] = models.String(sanitizeText(v.Str()))
		}
	}

	return out, errs
}

func alnumError(f Field) ValidationError {
	return ValidationError{
		Field:   f.ID,
		Message: f.Title + " can only contain letters and numbers",
	}
}

// sanitizeText reduces a submitted string to plain single-line text: invalid
// UTF-8 and control characters are dropped, markup is stripped, and runs of
// whitespace collapse to a single space.
func sanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = stripTags.Sanitize(s)
	return strings.Join(strings.Fields(s), " ")
}
