// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Value is a single stored setting. It holds either a plain string or an
// ordered list of strings (multiselect fields such as term whitelists).
type Value struct {
	str    string
	list   []string
	isList bool
}

// String returns a scalar setting value.
func String(s string) Value {
	return Value{str: s}
}

// List returns a list setting value. A nil slice is stored as an empty list.
func List(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{list: items, isList: true}
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool { return v.isList }

// Str returns the scalar value, or "" when the value is a list.
func (v Value) Str() string {
	if v.isList {
		return ""
	}
	return v.str
}

// Items returns the list value, or nil when the value is a scalar.
func (v Value) Items() []string {
	if !v.isList {
		return nil
	}
	return v.list
}

// Equal reports whether two values hold the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if v.isList {
		return slices.Equal(v.list, o.list)
	}
	return v.str == o.str
}

// MarshalJSON encodes a scalar as a JSON string and a list as an array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		items := v.list
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts a string, an array, or any other scalar. Non-string
// scalars and array elements are kept in their textual form so that a
// submitted number such as 12 becomes "12".
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			s, err := scalarText(r)
			if err != nil {
				return err
			}
			items = append(items, s)
		}
		*v = List(items...)
	default:
		s, err := scalarText(data)
		if err != nil {
			return err
		}
		*v = String(s)
	}
	return nil
}

// scalarText renders a JSON scalar as text. null becomes "".
func scalarText(data json.RawMessage) (string, error) {
	var anyVal any
	if err := json.Unmarshal(data, &anyVal); err != nil {
		return "", err
	}
	switch t := anyVal.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64, bool:
		return string(bytes.TrimSpace(data)), nil
	default:
		return "", fmt.Errorf("unsupported setting value %s", data)
	}
}

// Settings is the full Connext configuration keyed by field ID.
type Settings map[string]Value

// String returns the scalar value for key, or "" when it is missing or a list.
func (s Settings) String(key string) string {
	return s[key].Str()
}

// List returns the list value for key, or nil when it is missing or a scalar.
func (s Settings) List(key string) []string {
	return s[key].Items()
}

// Has reports whether key is present in the settings.
func (s Settings) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Get returns the scalar value for a key, or the fallback if it is empty.
func (s Settings) Get(key, fallback string) string {
	if v := s.String(key); v != "" {
		return v
	}
	return fallback
}

// Merge returns a copy of s with every key of other applied on top.
func (s Settings) Merge(other Settings) Settings {
	out := make(Settings, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
