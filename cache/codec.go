// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const recordVersion = 1

// record is the stored form of an Entry. The track id is the key and is not
// repeated in the value.
type record struct {
	Version   int       `msgpack:"v"`
	Window    int       `msgpack:"w"`
	CreatedAt time.Time `msgpack:"t"`
	Peaks     []float32 `msgpack:"p"`
}

func encodeEntry(e Entry) ([]byte, error) {
	raw, err := msgpack.Marshal(record{
		Version:   recordVersion,
		Window:    e.Window,
		CreatedAt: e.CreatedAt,
		Peaks:     e.Peaks,
	})
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, fmt.Errorf("compress entry: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compress entry: %w", err)
	}

	return buf.Bytes(), nil
}

func decodeEntry(trackID string, data []byte) (Entry, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}

	var rec record
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}
	if rec.Version != recordVersion {
		return Entry{}, fmt.Errorf("%w: version %d", ErrCorruptEntry, rec.Version)
	}

	return Entry{
		TrackID:   trackID,
		Peaks:     rec.Peaks,
		Window:    rec.Window,
		CreatedAt: rec.CreatedAt.UTC(),
	}, nil
}
