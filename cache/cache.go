// SPDX-License-Identifier: EPL-2.0

// Package cache persists finalized peak series keyed by track id.
//
// Entries are written whole and never patched. There is no expiry: an entry
// lives until Clear or until a newer Put for the same track replaces it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ik5/audpeaks/peaks"
)

// Entry is a cached, finalized peak series.
type Entry struct {
	TrackID   string
	Peaks     peaks.Series
	Window    int
	CreatedAt time.Time
}

type Cache struct {
	store  Store
	window int
	now    func() time.Time
}

type Option func(*Cache)

// WithWindow sets the window size entries are expected to have. Entries
// produced with a different window are reported as misses.
func WithWindow(window int) Option {
	return func(c *Cache) { c.window = window }
}

// WithClock replaces time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		window: peaks.WindowSize,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for trackID. A stale entry, one produced with another
// window size, is a miss. Store failures wrap ErrCacheUnavailable and
// undecodable values wrap ErrCorruptEntry.
func (c *Cache) Get(ctx context.Context, trackID string) (Entry, bool, error) {
	data, found, err := c.store.Get(ctx, trackID)
	if err != nil {
		return Entry{}, false, fmt.Errorf("%w: get %s: %w", ErrCacheUnavailable, trackID, err)
	}
	if !found {
		return Entry{}, false, nil
	}

	entry, err := decodeEntry(trackID, data)
	if err != nil {
		return Entry{}, false, fmt.Errorf("get %s: %w", trackID, err)
	}
	if entry.Window != c.window {
		return Entry{}, false, nil
	}

	return entry, true, nil
}

// Put replaces the entry for trackID with series.
func (c *Cache) Put(ctx context.Context, trackID string, series peaks.Series) error {
	if trackID == "" {
		return errors.New("cache: empty track id")
	}

	data, err := encodeEntry(Entry{
		TrackID:   trackID,
		Peaks:     series,
		Window:    c.window,
		CreatedAt: c.now().UTC(),
	})
	if err != nil {
		return err
	}

	if err := c.store.Put(ctx, trackID, data); err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrCacheUnavailable, trackID, err)
	}
	return nil
}

// Clear removes every entry and reports how many were removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	n, err := c.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: clear: %w", ErrCacheUnavailable, err)
	}
	return n, nil
}
