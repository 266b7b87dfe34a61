// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// mockOggVorbisReader simulates the oggvorbis.Reader for testing. Like the
// real reader it counts values, not frames, and may return fewer values than
// requested.
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	length     int64
	maxValues  int
	err        error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }
func (m *mockOggVorbisReader) Length() int64   { return m.length }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.offset >= len(m.samples) {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}

	n := min(len(buf), len(m.samples)-m.offset)
	if m.maxValues > 0 {
		n = min(n, m.maxValues)
	}
	copy(buf, m.samples[m.offset:m.offset+n])
	m.offset += n

	return n, nil
}

func newTestSource(channels int, samples []float32) (*source, *mockOggVorbisReader) {
	reader := &mockOggVorbisReader{
		sampleRate: 44100,
		channels:   channels,
		samples:    samples,
		length:     int64(len(samples) / channels),
	}
	return &source{dec: reader, sampleRate: 44100, channels: channels, bufSize: 4096}, reader
}

func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i) / float32(n)
	}
	return out
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not Ogg Vorbis data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotVorbisFile) {
				t.Errorf("Decode() error = %v, want ErrNotVorbisFile", err)
			}
			if src != nil {
				t.Errorf("Decode() source = %v, want nil", src)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src, reader := newTestSource(2, make([]float32, 200))

	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("format = %d Hz/%d ch, want 44100/2", src.SampleRate(), src.Channels())
	}
	if src.Frames() != 100 {
		t.Errorf("Frames() = %d, want 100", src.Frames())
	}
	if src.BufSize() <= 0 {
		t.Errorf("BufSize() = %d, want positive value", src.BufSize())
	}

	reader.length = 0
	if src.Frames() != 0 {
		t.Errorf("Frames() with unknown length = %d, want 0", src.Frames())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadSamples_CountsValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
	}{
		{"mono", 1},
		{"stereo", 2},
		{"5.1", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			samples := ramp(tt.channels * 10)
			src, _ := newTestSource(tt.channels, samples)

			dst := make([]float32, len(samples)+tt.channels)
			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != len(samples) {
				t.Fatalf("ReadSamples() n = %d, want %d values", n, len(samples))
			}
			for i := range n {
				if dst[i] != samples[i] {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], samples[i])
				}
			}

			n, err = src.ReadSamples(dst)
			if n != 0 || err != io.EOF {
				t.Errorf("ReadSamples() after end = (%d, %v), want (0, io.EOF)", n, err)
			}
		})
	}
}

func TestSource_ReadSamples_TrimsToWholeFrames(t *testing.T) {
	t.Parallel()

	src, reader := newTestSource(2, ramp(20))

	dst := make([]float32, 7)
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 6 {
		t.Errorf("ReadSamples() n = %d, want 6", n)
	}
	if reader.offset != 6 {
		t.Errorf("decoder advanced %d values, want 6", reader.offset)
	}

	n, err = src.ReadSamples(make([]float32, 1))
	if n != 0 || err != nil {
		t.Errorf("ReadSamples() with less than a frame = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_ShortReads(t *testing.T) {
	t.Parallel()

	samples := ramp(100)
	src, reader := newTestSource(2, samples)
	reader.maxValues = 16

	dst := make([]float32, 64)
	total := 0
	for {
		n, err := src.ReadSamples(dst)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
		if n > 16 {
			t.Fatalf("ReadSamples() n = %d, decoder returned at most 16", n)
		}
	}

	if total != len(samples) {
		t.Errorf("read %d values in total, want %d", total, len(samples))
	}
}

func TestSource_ReadSamples_DecoderError(t *testing.T) {
	t.Parallel()

	src, reader := newTestSource(1, ramp(4))
	reader.err = io.ErrUnexpectedEOF

	dst := make([]float32, 8)
	if n, err := src.ReadSamples(dst); n != 4 || err != nil {
		t.Fatalf("first read = (%d, %v), want (4, nil)", n, err)
	}

	n, err := src.ReadSamples(dst)
	if n != 0 || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("second read = (%d, %v), want (0, io.ErrUnexpectedEOF)", n, err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := ramp(44100 * 2)
	dst := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src, _ := newTestSource(2, samples)
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
