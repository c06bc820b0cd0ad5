// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"connext/internal/models"
)

// DecodeJSON reads a JSON object of field IDs to strings or string arrays.
func DecodeJSON(r io.Reader) (Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode settings json: %w", err)
	}
	if in == nil {
		in = Input{}
	}
	return in, nil
}

// DecodeYAML reads a YAML mapping of field IDs to scalars or sequences.
func DecodeYAML(r io.Reader) (Input, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode settings yaml: %w", err)
	}

	in := make(Input, len(raw))
	for key, val := range raw {
		switch t := val.(type) {
		case []any:
			items := make([]string, 0, len(t))
			for _, item := range t {
				items = append(items, scalarString(item))
			}
			in[key] = models.List(items...)
		case map[string]any:
			return nil, fmt.Errorf("decode settings yaml: field %q must be a scalar or a list", key)
		default:
			in[key] = models.String(scalarString(t))
		}
	}
	return in, nil
}

func scalarString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// FromForm converts a submitted form. Keys ending in "[]" and keys that
// repeat are lists; every other key is a single string.
func FromForm(form url.Values) Input {
	in := make(Input, len(form))
	for key, vals := range form {
		if name, ok := strings.CutSuffix(key, "[]"); ok {
			in[name] = models.List(vals...)
			continue
		}
		if len(vals) > 1 {
			in[key] = models.List(vals...)
			continue
		}
		if len(vals) == 1 {
			in[key] = models.String(vals[0])
		}
	}
	return in
}
