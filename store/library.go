// SPDX-License-Identifier: EPL-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Track is one audio file known to the library.
type Track struct {
	ID         string `gorm:"primaryKey;size:36"`
	Path       string `gorm:"not null;uniqueIndex"`
	Title      string
	Format     string
	SampleRate int
	Channels   int
	Frames     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TrackID derives a stable id from a file path: the SHA-1 name-based UUID of
// its absolute file URL. The same file always maps to the same id.
func TrackID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}

// Library is the track table.
type Library struct {
	db *gorm.DB
}

// OpenLibrary opens the library database at path.
func OpenLibrary(path string) (*Library, error) {
	db, err := Open(path, &Track{})
	if err != nil {
		return nil, err
	}
	return &Library{db: db}, nil
}

func NewLibrary(db *gorm.DB) *Library { return &Library{db: db} }

// AddTrack inserts t, or updates the row that already has its path. A
// missing id is derived from the path.
func (l *Library) AddTrack(ctx context.Context, t Track) (Track, error) {
	if t.Path == "" {
		return Track{}, errors.New("add track: empty path")
	}
	if abs, err := filepath.Abs(t.Path); err == nil {
		t.Path = abs
	}
	if t.ID == "" {
		t.ID = TrackID(t.Path)
	}

	attrs := Track{
		Title:      t.Title,
		Format:     t.Format,
		SampleRate: t.SampleRate,
		Channels:   t.Channels,
		Frames:     t.Frames,
	}
	row := Track{ID: t.ID, Path: t.Path}
	err := l.db.WithContext(ctx).
		Where(Track{Path: t.Path}).
		Assign(attrs).
		FirstOrCreate(&row).Error
	if err != nil {
		return Track{}, fmt.Errorf("add track %s: %w", t.Path, err)
	}

	return row, nil
}

// Track looks up a track by id.
func (l *Library) Track(ctx context.Context, id string) (Track, bool, error) {
	var t Track
	err := l.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Track{}, false, nil
	}
	if err != nil {
		return Track{}, false, fmt.Errorf("track %s: %w", id, err)
	}
	return t, true, nil
}

// ResolveTrackPath returns the file path of track id.
func (l *Library) ResolveTrackPath(ctx context.Context, id string) (string, bool, error) {
	t, found, err := l.Track(ctx, id)
	if err != nil || !found {
		return "", found, err
	}
	return t.Path, true, nil
}

// Tracks lists every track ordered by path.
func (l *Library) Tracks(ctx context.Context) ([]Track, error) {
	var tracks []Track
	if err := l.db.WithContext(ctx).Order("path").Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return tracks, nil
}

func (l *Library) Close() error { return Close(l.db) }
