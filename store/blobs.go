// SPDX-License-Identifier: EPL-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WaveformBlob is one serialized cache value, keyed by track id.
type WaveformBlob struct {
	TrackID   string `gorm:"primaryKey"`
	Data      []byte `gorm:"type:blob;not null"`
	UpdatedAt time.Time
}

// BlobStore is a key/value table for the waveform cache.
type BlobStore struct {
	db *gorm.DB
}

// OpenBlobStore opens the cache database at path.
func OpenBlobStore(path string) (*BlobStore, error) {
	db, err := Open(path, &WaveformBlob{})
	if err != nil {
		return nil, err
	}
	return &BlobStore{db: db}, nil
}

func NewBlobStore(db *gorm.DB) *BlobStore { return &BlobStore{db: db} }

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob WaveformBlob
	err := s.db.WithContext(ctx).Where("track_id = ?", key).Take(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get blob %s: %w", key, err)
	}
	return blob.Data, true, nil
}

// Put upserts the whole row.
func (s *BlobStore) Put(ctx context.Context, key string, value []byte) error {
	blob := WaveformBlob{TrackID: key, Data: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&blob).Error
	if err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) DeleteAll(ctx context.Context) (int, error) {
	res := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&WaveformBlob{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete blobs: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *BlobStore) Close() error { return Close(s.db) }
