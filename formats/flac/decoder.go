// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2/flac"
	"github.com/ik5/audpeaks/audio"
)

var ErrNotFlacFile = errors.New("not a FLAC stream")

// flacStreamer is the part of beep.StreamSeekCloser the source needs, so
// tests can substitute it.
type flacStreamer interface {
	Stream(samples [][2]float64) (n int, ok bool)
	Err() error
	Len() int
	Close() error
}

// source adapts beep's frame-oriented stream to interleaved samples. beep
// always produces stereo pairs; mono streams carry the same value in both.
type source struct {
	dec        flacStreamer
	sampleRate int
	channels   int
	buf        [][2]float64
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Frames() int64   { return int64(max(s.dec.Len(), 0)) }
func (s *source) BufSize() int    { return cap(s.buf) * s.channels }

func (s *source) Close() error {
	if err := s.dec.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / s.channels
	if frames == 0 {
		return 0, nil
	}

	if cap(s.buf) < frames {
		s.buf = make([][2]float64, frames)
	}
	s.buf = s.buf[:frames]

	n, ok := s.dec.Stream(s.buf)
	if !ok || n == 0 {
		if err := s.dec.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	if s.channels == 1 {
		for i := range n {
			dst[i] = float32(s.buf[i][0])
		}
		return n, nil
	}

	for i := range n {
		dst[2*i] = float32(s.buf[i][0])
		dst[2*i+1] = float32(s.buf[i][1])
	}
	return 2 * n, nil
}

type Decoder struct{}

// Decode reads the stream info block. Files with more than two channels are
// reduced to their first two by beep.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, format, err := flac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	return &source{
		dec:        stream,
		sampleRate: int(format.SampleRate),
		channels:   min(format.NumChannels, 2),
		buf:        make([][2]float64, 2048),
	}, nil
}
