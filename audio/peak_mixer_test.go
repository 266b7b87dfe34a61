// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestPeakMixer_MonoRectifies(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 1, 4, func(sample int, channel int) float32 {
		return []float32{0.5, -0.75, 0.25, -1}[sample]
	})
	mixer := NewPeakMixer(src)

	if mixer.Channels() != 1 {
		t.Errorf("PeakMixer.Channels() = %d, want 1", mixer.Channels())
	}

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if err != io.EOF {
		t.Fatalf("ReadSamples() error = %v, want io.EOF", err)
	}

	want := []float32{0.5, 0.75, 0.25, 1}
	if n != len(want) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestPeakMixer_StereoTakesLoudestChannel(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 2, 100, func(sample int, channel int) float32 {
		if channel == 0 {
			return 0.4
		}
		return -0.6
	})
	mixer := NewPeakMixer(src)

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	if n != 10 {
		t.Errorf("ReadSamples() n = %d, want 10", n)
	}

	for i := range n {
		if math.Abs(float64(buf[i]-0.6)) > 1e-6 {
			t.Errorf("buf[%d] = %v, want 0.6", i, buf[i])
		}
	}
}

func TestPeakMixer_MultiChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		want     float32
	}{
		{name: "quad", channels: 4, want: 0.3},
		{name: "5.1", channels: 6, want: 0.5},
		{name: "7.1", channels: 8, want: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newMockSource(8000, tt.channels, 100, func(sample int, channel int) float32 {
				return -float32(channel) / 10.0
			})
			mixer := NewPeakMixer(src)

			buf := make([]float32, 10)
			n, err := mixer.ReadSamples(buf)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}

			for i := range n {
				if math.Abs(float64(buf[i]-tt.want)) > 1e-6 {
					t.Errorf("buf[%d] = %v, want %v", i, buf[i], tt.want)
				}
			}
		})
	}
}

func TestPeakMixer_NonFiniteIsSilence(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	src := newMockSource(8000, 2, 3, func(sample int, channel int) float32 {
		switch sample {
		case 0:
			return nan
		case 1:
			return inf
		}
		return 0.2
	})
	mixer := NewPeakMixer(src)

	buf := make([]float32, 3)
	n, _ := mixer.ReadSamples(buf)
	if n != 3 {
		t.Fatalf("ReadSamples() n = %d, want 3", n)
	}

	want := []float32{0, 0, 0.2}
	for i := range want {
		if math.Abs(float64(buf[i]-want[i])) > 1e-6 {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

// chunkSource serves interleaved samples in fixed-size reads that ignore
// frame boundaries.
type chunkSource struct {
	*mockSource
	samples []float32
	chunk   int
	pos     int
}

func (c *chunkSource) ReadSamples(dst []float32) (int, error) {
	if c.pos >= len(c.samples) {
		return 0, io.EOF
	}

	n := copy(dst[:min(len(dst), c.chunk)], c.samples[c.pos:])
	c.pos += n
	if c.pos == len(c.samples) {
		return n, io.EOF
	}
	return n, nil
}

func TestPeakMixer_ReadsEndingMidFrame(t *testing.T) {
	t.Parallel()

	// Left ramps up, right stays quiet. A trailing lone sample has no
	// partner and must not produce a frame.
	var samples []float32
	for f := range 6 {
		samples = append(samples, 0.1*float32(f+1), -0.05)
	}
	samples = append(samples, 0.9)

	src := &chunkSource{
		mockSource: newSilentSource(8000, 2, 6),
		samples:    samples,
		chunk:      3,
	}
	mixer := NewPeakMixer(src)

	var got []float32
	buf := make([]float32, 4)
	for range 100 {
		n, err := mixer.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	if len(got) != len(want) {
		t.Fatalf("got %d frames %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPeakMixer_EOF(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 2, 5)
	mixer := NewPeakMixer(src)

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)

	if err != io.EOF {
		t.Errorf("ReadSamples() error = %v, want io.EOF", err)
	}

	if n != 5 {
		t.Errorf("ReadSamples() n = %d, want 5", n)
	}

	n, err = mixer.ReadSamples(buf)
	if err != io.EOF {
		t.Errorf("Second ReadSamples() error = %v, want io.EOF", err)
	}
	if n != 0 {
		t.Errorf("Second ReadSamples() n = %d, want 0", n)
	}
}

func TestPeakMixer_PassesErrorWithData(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := newConstantSource(8000, 2, 100, 0.5)
	src.failAt = 4
	src.failErr = boom
	mixer := NewPeakMixer(src)

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = (%d, %v), want (4, nil)", n, err)
	}

	n, err = mixer.ReadSamples(buf)
	if !errors.Is(err, boom) || n != 0 {
		t.Fatalf("ReadSamples() = (%d, %v), want (0, boom)", n, err)
	}
}

func TestPeakMixer_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 2, 100)
	mixer := NewPeakMixer(src)

	n, err := mixer.ReadSamples(nil)
	if err != nil {
		t.Errorf("ReadSamples() with empty buffer error = %v, want nil", err)
	}

	if n != 0 {
		t.Errorf("ReadSamples() with empty buffer n = %d, want 0", n)
	}
}

func TestPeakMixer_PreservesMetadata(t *testing.T) {
	t.Parallel()

	src := newSilentSource(44100, 2, 100)
	mixer := NewPeakMixer(src)

	if mixer.SampleRate() != 44100 {
		t.Errorf("PeakMixer.SampleRate() = %d, want 44100", mixer.SampleRate())
	}

	if mixer.Frames() != 100 {
		t.Errorf("PeakMixer.Frames() = %d, want 100", mixer.Frames())
	}

	if mixer.BufSize() != src.BufSize() {
		t.Errorf("PeakMixer.BufSize() = %d, want %d", mixer.BufSize(), src.BufSize())
	}
}

func TestPeakMixer_Close(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 2, 1000)
	mixer := NewPeakMixer(src)

	if err := mixer.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
	if !src.closed {
		t.Error("Close() did not close the source")
	}
}

func TestPeakMixer_SmallReads(t *testing.T) {
	t.Parallel()

	src := newConstantSource(8000, 2, 1000, -0.5)
	mixer := NewPeakMixer(src)

	total := 0
	buf := make([]float32, 7)
	for {
		n, err := mixer.ReadSamples(buf)
		for i := range n {
			if buf[i] != 0.5 {
				t.Fatalf("buf[%d] = %v, want 0.5", i, buf[i])
			}
		}
		total += n

		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != 1000 {
		t.Errorf("folded %d frames, want 1000", total)
	}
}

// BenchmarkPeakMixer_Stereo benchmarks folding stereo frames
func BenchmarkPeakMixer_Stereo(b *testing.B) {
	src := newSineSource(44100, 2, 100000, 440.0)
	mixer := NewPeakMixer(src)
	buf := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		for {
			_, err := mixer.ReadSamples(buf)
			if err == io.EOF {
				break
			}
		}
	}
}

// BenchmarkPeakMixer_ManyChannels benchmarks folding many channels
func BenchmarkPeakMixer_ManyChannels(b *testing.B) {
	src := newMockSource(8000, 16, 100000, func(sample int, channel int) float32 {
		return 0.0625
	})
	mixer := NewPeakMixer(src)
	buf := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		for {
			_, err := mixer.ReadSamples(buf)
			if err == io.EOF {
				break
			}
		}
	}
}
