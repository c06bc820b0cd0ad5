// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package display

import (
	"strings"

	"connext/internal/models"
)

// Script file names. The unminified build is only served to the test
// environment.
const (
	scriptTest = "Connext.js"
	scriptProd = "Connext.min.js"
)

// Script is the payload handed to the Connext library's init call.
type Script struct {
	Source      string `json:"src"`
	SiteCode    string `json:"siteCode"`
	ConfigCode  string `json:"configCode"`
	Attr        string `json:"attr"`
	SettingsKey string `json:"settingsKey"`
	Debug       bool   `json:"debug"`
	Environment string `json:"environment"`
	SilentMode  bool   `json:"silentMode"`
}

// NewScript builds the init payload from stored settings. baseURL is
// prefixed to the script file name.
func NewScript(s models.Settings, baseURL string) Script {
	env := s.String("environment")
	src := scriptProd
	if env == "test" {
		src = scriptTest
	}
	if baseURL != "" {
		src = strings.TrimRight(baseURL, "/") + "/" + src
	}

	return Script{
		Source:      src,
		SiteCode:    s.String("site_code"),
		ConfigCode:  s.String("config_code"),
		Attr:        s.String("attributes"),
		SettingsKey: s.String("settings_key"),
		Debug:       flag(s.String("debug")),
		Environment: env,
		SilentMode:  flag(s.String("silent_mode")),
	}
}

// flag mirrors the script loader: only the literal "false" turns a flag off.
func flag(v string) bool {
	return v != "false"
}
