// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"connext/internal/display"
	"connext/internal/models"
)

const (
	// settingsKey is the Valkey key holding the settings snapshot.
	settingsKey = "connext:settings"

	// settingsGenKey counts invalidations. A snapshot is only served while
	// it carries the current generation.
	settingsGenKey = "connext:settings:gen"

	// DefaultSettingsTTL is how long a settings snapshot stays cached.
	DefaultSettingsTTL = 5 * time.Minute
)

// SettingsCache keeps a JSON snapshot of the settings in Valkey in front of
// the database. Cache errors are logged and fall through to the source.
//
// Each snapshot is stamped with the generation read before the source was
// loaded. Invalidate bumps the generation, so a reader that loaded settings
// before a write and stores them after the invalidation leaves a snapshot
// that is never served.
type SettingsCache struct {
	client *redis.Client
	source display.SettingsSource
	ttl    time.Duration
}

type snapshot struct {
	Gen      string          `json:"gen"`
	Settings models.Settings `json:"settings"`
}

// NewSettingsCache wraps source with a Valkey-backed snapshot cache.
func NewSettingsCache(client *redis.Client, source display.SettingsSource, ttl time.Duration) *SettingsCache {
	if ttl == 0 {
		ttl = DefaultSettingsTTL
	}
	return &SettingsCache{client: client, source: source, ttl: ttl}
}

// Settings returns the cached snapshot, loading it from the source on a miss
// or when the snapshot predates the last invalidation.
func (c *SettingsCache) Settings(ctx context.Context) (models.Settings, error) {
	gen, cached, err := c.lookup(ctx)
	if err != nil {
		slog.Warn("settings cache get error", "error", err)
		return c.source.Settings(ctx)
	}
	if cached != nil {
		slog.Debug("settings cache hit")
		return cached, nil
	}

	s, err := c.source.Settings(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snapshot{Gen: gen, Settings: s}); err == nil {
		if err := c.client.Set(ctx, settingsKey, data, c.ttl).Err(); err != nil {
			slog.Warn("settings cache set error", "error", err)
		}
	}
	return s, nil
}

// lookup reads the current generation and the snapshot in one round trip.
// cached is nil on a miss, a stale generation or a corrupt entry.
func (c *SettingsCache) lookup(ctx context.Context) (gen string, cached models.Settings, err error) {
	vals, err := c.client.MGet(ctx, settingsGenKey, settingsKey).Result()
	if err != nil {
		return "", nil, err
	}

	gen = "0"
	if g, ok := vals[0].(string); ok {
		gen = g
	}
	raw, ok := vals[1].(string)
	if !ok {
		return gen, nil, nil
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		slog.Warn("settings cache entry corrupt, reloading", "error", err)
		return gen, nil, nil
	}
	if snap.Gen != gen {
		slog.Debug("settings cache entry stale", "gen", snap.Gen, "current", gen)
		return gen, nil, nil
	}
	if snap.Settings == nil {
		snap.Settings = models.Settings{}
	}
	return gen, snap.Settings, nil
}

// Invalidate retires the cached snapshot. Call after every settings write.
func (c *SettingsCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, settingsGenKey)
		pipe.Del(ctx, settingsKey)
		return nil
	})
	if err != nil {
		slog.Warn("settings cache invalidate error", "error", err)
		return
	}
	slog.Debug("settings cache invalidated")
}
