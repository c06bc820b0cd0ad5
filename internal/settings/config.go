// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings declares the Connext settings form and sanitizes
// submissions against it before they are persisted.
package settings

import (
	"fmt"

	"connext/internal/display"
	"connext/internal/models"
)

// Widget is the kind of form control a field is edited with.
type Widget int

const (
	TextField Widget = iota
	SingleSelect
	MultiSelect
)

// String returns the widget name used in the form schema.
func (w Widget) String() string {
	switch w {
	case TextField:
		return "text"
	case SingleSelect:
		return "select"
	case MultiSelect:
		return "multiselect"
	default:
		return fmt.Sprintf("widget(%d)", int(w))
	}
}

// MarshalText encodes the widget by name.
func (w Widget) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Validation names the format check applied to a submitted field.
type Validation string

const (
	Alphanumeric      Validation = "alphanumeric"
	AlphanumericArray Validation = "alphanumeric_array"
	AlphanumericComma Validation = "alphanumeric_comma"
)

// Option is a single choice of a select widget.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one setting: how it is edited and how it is validated.
// Fields with an empty Validation are never persisted.
type Field struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Widget      Widget     `json:"widget"`
	Options     []Option   `json:"options,omitempty"`
	Default     string     `json:"default,omitempty"`
	Validation  Validation `json:"validation"`
}

// Display returns the value the field's widget shows for the current
// settings. Selects fall back to their default; multiselects always show a
// list.
func (f *Field) Display(current models.Settings) models.Value {
	switch f.Widget {
	case TextField:
		return models.String(current.String(f.ID))
	case SingleSelect:
		if v, ok := current[f.ID]; ok && !v.IsList() {
			return v
		}
		return models.String(f.Default)
	case MultiSelect:
		return models.List(current.List(f.ID)...)
	default:
		panic(fmt.Sprintf("settings: unhandled widget %v", f.Widget))
	}
}

// Section groups related fields on the settings form.
type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// Config is the ordered list of settings sections.
type Config []Section

// Field looks up a field by ID across all sections.
func (c Config) Field(id string) (*Field, bool) {
	for i := range c {
		for j := range c[i].Fields {
			if c[i].Fields[j].ID == id {
				return &c[i].Fields[j], true
			}
		}
	}
	return nil, false
}

// Fields returns every field in section order.
func (c Config) Fields() []Field {
	var out []Field
	for _, s := range c {
		out = append(out, s.Fields...)
	}
	return out
}

var (
	yesNo = []Option{{"no", "No"}, {"yes", "Yes"}}
)

// Build returns the settings form for the given taxonomies. Each taxonomy
// with at least one term gets a no/all/some rule and a term whitelist.
func Build(taxonomies []models.Taxonomy) Config {
	general := Section{
		ID:          "general_settings",
		Title:       "General Settings",
		Description: "Setup the general configuration of the Connext plugin",
		Fields: []Field{
			textField("site_code", "Site Code", "This is your site code given by your PM.", Alphanumeric),
			textField("config_code", "Config Code", "This is the configuration code you want to use. You can get this from the Connext Admin.", Alphanumeric),
			textField("attributes", "Attr", "This is the attributes.", Alphanumeric),
			textField("settings_key", "Settings Key", "Settings key for multi paper.", AlphanumericComma),
			{
				ID:          "debug",
				Title:       "Debug",
				Description: "Controls how much is written to windows console.",
				Widget:      SingleSelect,
				Options:     []Option{{"false", "No"}, {"true", "Yes"}},
				Default:     "true",
				Validation:  Alphanumeric,
			},
			{
				ID:         "environment",
				Title:      "Environment",
				Widget:     SingleSelect,
				Options:    []Option{{"test", "Test"}, {"stage", "Stage"}, {"prod", "Production"}},
				Default:    "test",
				Validation: Alphanumeric,
			},
			{
				ID:         "silent_mode",
				Title:      "Silent Mode",
				Widget:     SingleSelect,
				Options:    []Option{{"true", "True"}, {"false", "False"}},
				Default:    "false",
				Validation: Alphanumeric,
			},
		},
	}

	displaySection := Section{
		ID:          "display_settings",
		Title:       "Display Settings",
		Description: "Choose on which pages the Connext code should render",
		Fields: []Field{
			{
				ID:          display.KeyDisplayHome,
				Title:       "Display on Home Page",
				Description: "Applies to the blog posts index.",
				Widget:      SingleSelect,
				Options:     yesNo,
				Default:     "no",
				Validation:  Alphanumeric,
			},
			{
				ID:          display.KeyDisplayFront,
				Title:       "Display on Front Page",
				Description: "Applies to the site front page.",
				Widget:      SingleSelect,
				Options:     yesNo,
				Default:     "no",
				Validation:  Alphanumeric,
			},
		},
	}

	for _, tax := range taxonomies {
		if len(tax.Terms) == 0 {
			continue
		}
		displaySection.Fields = append(displaySection.Fields, taxonomyFields(tax)...)
	}

	return Config{general, displaySection}
}

func textField(id, title, description string, v Validation) Field {
	return Field{
		ID:          id,
		Title:       title,
		Description: description,
		Placeholder: title,
		Widget:      TextField,
		Validation:  v,
	}
}

func taxonomyFields(tax models.Taxonomy) []Field {
	label := tax.Label
	if label == "" {
		label = tax.Name
	}

	terms := make([]Option, 0, len(tax.Terms))
	for _, t := range tax.Terms {
		terms = append(terms, Option{Value: t.ID, Label: t.Name})
	}

	return []Field{
		{
			ID:          display.TaxonomyKey(tax.Name),
			Title:       "Display on " + label,
			Description: fmt.Sprintf("Should the Connext code render on No, All, or Some %s?", label),
			Widget:      SingleSelect,
			Options: []Option{
				{display.RuleNo, "No " + label},
				{display.RuleAll, "All " + label},
				{display.RuleSome, "Some " + label},
			},
			Default:    display.RuleNo,
			Validation: Alphanumeric,
		},
		{
			ID:          display.TermsKey(tax.Name),
			Title:       "Display on some " + label,
			Description: "Choose one or more terms.",
			Widget:      MultiSelect,
			Options:     terms,
			Validation:  AlphanumericArray,
		},
	}
}
