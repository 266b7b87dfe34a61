// SPDX-License-Identifier: EPL-2.0

package audpeaks

import (
	"fmt"

	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/formats/aiff"
	"github.com/ik5/audpeaks/formats/flac"
	"github.com/ik5/audpeaks/formats/mp3"
	"github.com/ik5/audpeaks/formats/vorbis"
	"github.com/ik5/audpeaks/formats/wav"
	"github.com/ik5/audpeaks/peaks"
)

// NewRegistry returns a registry with every bundled decoder, keyed by the
// file extensions they handle.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()

	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})

	return r
}

// Peaks drains src and returns its finalized peak series: one value per
// peaks.WindowSize frames, normalized to [0, 1].
//
// If src fails mid-stream the raw peaks gathered so far are returned with
// the error.
func Peaks(src audio.Source) (peaks.Series, error) {
	raw, err := peaks.Reduce(src, peaks.WindowSize)
	if err != nil {
		return raw, fmt.Errorf("%w", err)
	}

	return raw.Normalize(), nil
}

// PeaksFile decodes the file at path and returns its finalized peak series
// along with the stream metadata.
//
// Example:
//
//	series, info, err := audpeaks.PeaksFile("song.flac")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d peaks for %.1fs of audio\n", len(series), info.Seconds())
func PeaksFile(path string) (peaks.Series, audio.Info, error) {
	src, err := NewRegistry().OpenStream(path)
	if err != nil {
		return nil, audio.Info{}, fmt.Errorf("%w", err)
	}
	defer src.Close()

	info := src.Info()
	series, err := Peaks(src)
	return series, info, err
}
