// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audpeaks/formats/wav"
)

func TestSource_ReadsAllFrames(t *testing.T) {
	t.Parallel()

	src := NewConstant(8000, 2, 10, 0.5)
	buf := make([]float32, 8)

	total := 0
	for {
		n, err := src.ReadSamples(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != 20 {
		t.Errorf("read %d samples, want 20", total)
	}
	if src.Frames() != 10 {
		t.Errorf("Frames() = %d, want 10", src.Frames())
	}
}

func TestSource_FailAt(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := NewConstant(8000, 1, 100, 0.5).FailAt(30, boom)
	buf := make([]float32, 64)

	if n, err := src.ReadSamples(buf); n != 30 || err != nil {
		t.Fatalf("first read = (%d, %v), want (30, nil)", n, err)
	}
	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, boom) {
		t.Fatalf("second read = (%d, %v), want (0, boom)", n, err)
	}
}

func TestSource_HoldAndRelease(t *testing.T) {
	t.Parallel()

	src := NewSilent(8000, 1, 4).Hold()
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = src.ReadSamples(make([]float32, 4))
	}()

	select {
	case <-done:
		t.Fatal("read finished before Release")
	case <-time.After(20 * time.Millisecond):
	}

	src.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("read still blocked after Release")
	}
}

func TestSource_HideLength(t *testing.T) {
	t.Parallel()

	if got := NewSilent(8000, 1, 4).HideLength().Frames(); got != 0 {
		t.Errorf("Frames() = %d, want 0", got)
	}
}

func TestWriteSineWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sine.wav")
	if err := WriteSineWAV(path, 8000, 2, 800, 440, 0.8); err != nil {
		t.Fatalf("WriteSineWAV() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 8000 || src.Channels() != 2 || src.Frames() != 800 {
		t.Errorf("layout = %d Hz/%d ch/%d frames, want 8000/2/800",
			src.SampleRate(), src.Channels(), src.Frames())
	}
}
