// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MaxEmptyReads bounds consecutive reads that return neither data nor an
// error before a source is considered stuck.
const MaxEmptyReads = 100

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// Frames is the estimated total number of frames, or 0 when the
	// container does not expose a length.
	Frames() int64
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames), which need not
	// be a whole number of frames. When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	BufSize() int
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Info is the metadata of an opened stream.
type Info struct {
	Format     string
	SampleRate int
	Channels   int
	Frames     int64
}

// Seconds is the estimated duration in seconds; 0 when unknown.
func (i Info) Seconds() float64 {
	if i.SampleRate <= 0 || i.Frames <= 0 {
		return 0
	}
	return float64(i.Frames) / float64(i.SampleRate)
}

// Duration is Seconds as a time.Duration.
func (i Info) Duration() time.Duration {
	return time.Duration(i.Seconds() * float64(time.Second))
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder
	mtx    *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

// Register adds d under format. Keys are case-insensitive and may carry a
// leading dot, so extensions can be passed directly.
func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[formatKey(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[formatKey(format)]
	return d, ok
}

// Supports reports whether a decoder is registered for format.
func (r *Registry) Supports(format string) bool {
	_, ok := r.Get(format)
	return ok
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func formatKey(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}
