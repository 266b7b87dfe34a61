// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"slices"
)

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Validate checks cfg and reports the first problem found.
func Validate(cfg *Config) error {
	if cfg.LibraryDB == "" {
		return fmt.Errorf("library_db is required")
	}
	if cfg.CacheDB == "" {
		return fmt.Errorf("cache_db is required")
	}
	if cfg.LibraryDB == cfg.CacheDB {
		return fmt.Errorf("cache_db must differ from library_db")
	}

	if !slices.Contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of %v, got %q", logLevels, cfg.Log.Level)
	}
	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("log.format must be one of %v, got %q", logFormats, cfg.Log.Format)
	}

	g := cfg.Generator
	if g.PublishEvery <= 0 {
		return fmt.Errorf("generator.publish_every must be > 0")
	}
	if g.PublishInterval <= 0 {
		return fmt.Errorf("generator.publish_interval must be > 0")
	}
	if g.BufferFrames <= 0 {
		return fmt.Errorf("generator.buffer_frames must be > 0")
	}
	if g.SubscriberBuffer <= 0 {
		return fmt.Errorf("generator.subscriber_buffer must be > 0")
	}
	if g.Workers <= 0 {
		return fmt.Errorf("generator.workers must be > 0")
	}

	d := cfg.Display
	if d.BarWidth <= 0 {
		return fmt.Errorf("display.bar_width must be > 0")
	}
	if d.MinGap < 0 {
		return fmt.Errorf("display.min_gap must be >= 0")
	}
	if d.Debounce < 0 {
		return fmt.Errorf("display.debounce must be >= 0")
	}

	return nil
}
