// SPDX-License-Identifier: EPL-2.0

// Package config loads the audpeaks settings from YAML, with AUDPEAKS_*
// environment variables taking precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config is the complete audpeaks configuration.
type Config struct {
	LibraryDB string          `yaml:"library_db"`
	CacheDB   string          `yaml:"cache_db"`
	Log       LogConfig       `yaml:"log"`
	Generator GeneratorConfig `yaml:"generator"`
	Display   DisplayConfig   `yaml:"display"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// GeneratorConfig tunes background waveform generation. The peak window is
// fixed and deliberately absent.
type GeneratorConfig struct {
	PublishEvery     int           `yaml:"publish_every"`     // peaks between partial events
	PublishInterval  time.Duration `yaml:"publish_interval"`  // max time between partial events
	BufferFrames     int           `yaml:"buffer_frames"`     // frames decoded per read
	SubscriberBuffer int           `yaml:"subscriber_buffer"` // events queued per subscriber
	Workers          int           `yaml:"workers"`           // parallel runs when warming the cache
}

type DisplayConfig struct {
	BarWidth float64       `yaml:"bar_width"`
	MinGap   float64       `yaml:"min_gap"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LibraryDB: "~/.local/share/audpeaks/library.db",
		CacheDB:   "~/.cache/audpeaks/waveforms.db",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Generator: GeneratorConfig{
			PublishEvery:     32,
			PublishInterval:  100 * time.Millisecond,
			BufferFrames:     4096,
			SubscriberBuffer: 16,
			Workers:          4,
		},
		Display: DisplayConfig{
			BarWidth: 1,
			MinGap:   0,
			Debounce: 0,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides, expands ~ in paths and validates the result. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	for _, p := range []*string{&cfg.LibraryDB, &cfg.CacheDB} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	envStr(getenv, "AUDPEAKS_LIBRARY_DB", &cfg.LibraryDB)
	envStr(getenv, "AUDPEAKS_CACHE_DB", &cfg.CacheDB)
	envStr(getenv, "AUDPEAKS_LOG_LEVEL", &cfg.Log.Level)
	envStr(getenv, "AUDPEAKS_LOG_FORMAT", &cfg.Log.Format)

	return errors.Join(
		envInt(getenv, "AUDPEAKS_PUBLISH_EVERY", &cfg.Generator.PublishEvery),
		envDuration(getenv, "AUDPEAKS_PUBLISH_INTERVAL", &cfg.Generator.PublishInterval),
		envInt(getenv, "AUDPEAKS_BUFFER_FRAMES", &cfg.Generator.BufferFrames),
		envInt(getenv, "AUDPEAKS_SUBSCRIBER_BUFFER", &cfg.Generator.SubscriberBuffer),
		envInt(getenv, "AUDPEAKS_WORKERS", &cfg.Generator.Workers),
	)
}

func envStr(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func envInt(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(getenv func(string) string, key string, dst *time.Duration) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
