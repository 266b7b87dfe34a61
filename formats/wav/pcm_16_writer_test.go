// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate int
		channels   int
		samples    []int16
	}{
		{"mono", 44100, 1, []int16{100, 200, 300, 400}},
		{"stereo", 48000, 2, []int16{1, -1, 2, -2}},
		{"5.1", 48000, 6, make([]int16, 12)},
		{"empty", 8000, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			if err := WriteWAV16(buf, tt.sampleRate, tt.channels, tt.samples); err != nil {
				t.Fatalf("WriteWAV16() error = %v", err)
			}

			data := buf.Bytes()
			if len(data) != headerSize+len(tt.samples)*2 {
				t.Fatalf("file size = %d, want %d", len(data), headerSize+len(tt.samples)*2)
			}
			if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
				t.Errorf("markers = %q/%q, want RIFF/WAVE", data[0:4], data[8:12])
			}
			if got := binary.LittleEndian.Uint32(data[4:8]); got != uint32(len(data)-8) {
				t.Errorf("RIFF size = %d, want %d", got, len(data)-8)
			}
			if got := binary.LittleEndian.Uint16(data[22:24]); got != uint16(tt.channels) {
				t.Errorf("channels = %d, want %d", got, tt.channels)
			}
			if got := binary.LittleEndian.Uint32(data[24:28]); got != uint32(tt.sampleRate) {
				t.Errorf("sample rate = %d, want %d", got, tt.sampleRate)
			}
			if got := binary.LittleEndian.Uint32(data[28:32]); got != uint32(tt.sampleRate*tt.channels*2) {
				t.Errorf("byte rate = %d, want %d", got, tt.sampleRate*tt.channels*2)
			}
			if got := binary.LittleEndian.Uint16(data[32:34]); got != uint16(tt.channels*2) {
				t.Errorf("block align = %d, want %d", got, tt.channels*2)
			}
			if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(tt.samples)*2) {
				t.Errorf("data size = %d, want %d", got, len(tt.samples)*2)
			}
		})
	}
}

func TestWriteWAV16_ByteOrder(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 8000, 1, []int16{0x1234}); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	data := buf.Bytes()
	if data[44] != 0x34 || data[45] != 0x12 {
		t.Errorf("sample bytes = [%02x %02x], want [34 12]", data[44], data[45])
	}
}

func TestWriteWAV16_InvalidLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate int
		channels   int
		samples    []int16
	}{
		{"no channels", 8000, 0, []int16{1}},
		{"no sample rate", 0, 1, []int16{1}},
		{"partial frame", 8000, 2, []int16{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			err := WriteWAV16(buf, tt.sampleRate, tt.channels, tt.samples)
			if !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("WriteWAV16() error = %v, want ErrInvalidLayout", err)
			}
			if buf.Len() != 0 {
				t.Errorf("wrote %d bytes on invalid layout", buf.Len())
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrShortWrite }

func TestWriteWAV16_WriterError(t *testing.T) {
	t.Parallel()

	err := WriteWAV16(failingWriter{}, 8000, 1, []int16{1, 2})
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("WriteWAV16() error = %v, want io.ErrShortWrite", err)
	}
}

func TestWriteWAV16_RoundTrip(t *testing.T) {
	t.Parallel()

	original := []int16{0, 100, -100, 32767, -32768, 12345, -6789, 42}
	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 16000, 2, original); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	src, err := Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.SampleRate() != 16000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz/%d ch, want 16000/2", src.SampleRate(), src.Channels())
	}
	if src.Frames() != 4 {
		t.Errorf("Frames() = %d, want 4", src.Frames())
	}

	dst := make([]float32, 16)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != len(original) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(original))
	}

	for i, s := range original {
		want := float32(s) / 32768.0
		if diff := dst[i] - want; diff < -0.0001 || diff > 0.0001 {
			t.Errorf("sample[%d] = %v, want ≈%v", i, dst[i], want)
		}
	}
}

func BenchmarkWriteWAV16(b *testing.B) {
	samples := make([]int16, 44100*2)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}

	b.ReportAllocs()

	for b.Loop() {
		buf := new(bytes.Buffer)
		_ = WriteWAV16(buf, 44100, 2, samples)
	}
}
