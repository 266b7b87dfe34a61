// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stream is an opened audio file. It is a Source that owns the file handle
// and classifies decoder failures as ErrCorruptStream.
//
// A Stream can be read once. Decoding the file again requires a new Open.
type Stream struct {
	Source
	info Info
	path string
	file *os.File
}

// Info returns the stream metadata captured when it was opened.
func (s *Stream) Info() Info { return s.info }

// Path is the file the stream was opened from.
func (s *Stream) Path() string { return s.path }

func (s *Stream) ReadSamples(dst []float32) (int, error) {
	n, err := s.Source.ReadSamples(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %s: %w", ErrCorruptStream, s.path, err)
	}
	return n, err
}

func (s *Stream) Close() error {
	srcErr := s.Source.Close()

	// Some decoders close the underlying reader themselves.
	fileErr := s.file.Close()
	if errors.Is(fileErr, os.ErrClosed) {
		fileErr = nil
	}

	if err := errors.Join(srcErr, fileErr); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Open decodes the file at path with the decoder registered for its
// extension, or for the format detected from its header when the extension
// is unknown. The returned Source is a *Stream.
func (r *Registry) Open(path string) (Source, error) {
	s, err := r.OpenStream(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenStream is Open with the concrete type, for callers that need Info.
func (r *Registry) OpenStream(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	format, dec, err := r.lookup(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
	}

	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		src.Close()
		f.Close()
		return nil, fmt.Errorf("%w: %s: no audio channels", ErrUnsupportedFormat, path)
	}

	return &Stream{
		Source: src,
		info: Info{
			Format:     format,
			SampleRate: src.SampleRate(),
			Channels:   src.Channels(),
			Frames:     max(src.Frames(), 0),
		},
		path: path,
		file: f,
	}, nil
}

func (r *Registry) lookup(path string, f *os.File) (string, Decoder, error) {
	if ext := formatKey(filepath.Ext(path)); ext != "" {
		if dec, ok := r.Get(ext); ok {
			return ext, dec, nil
		}
	}

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	format := Sniff(header[:n])
	if format == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	dec, ok := r.Get(format)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s: no decoder for %s", ErrUnsupportedFormat, path, format)
	}
	return format, dec, nil
}

// Sniff detects a container from its first bytes. It returns "" when the
// header is not recognized.
func Sniff(header []byte) string {
	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return "wav"
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return "aiff"
	case bytes.HasPrefix(header, []byte("OggS")):
		return "ogg"
	case bytes.HasPrefix(header, []byte("fLaC")):
		return "flac"
	case bytes.HasPrefix(header, []byte("ID3")):
		return "mp3"
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return "mp3"
	}
	return ""
}
