// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding primitives the peak pipeline reads
// from.
//
// This package contains:
//   - Source interface for audio input
//   - Registry for decoder registration and file opening
//   - PeakMixer for folding channels into per-frame magnitudes
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    Frames() int64
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Frames is an estimate. Containers that do not expose a length report 0,
// and readers must keep going until io.EOF.
//
// # Opening Files
//
// The registry maps format keys to decoders and opens files by extension,
// falling back to the header when the extension is unknown:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Open("take1.wav")
//
// Open returns a *Stream carrying the Info captured at open time. Failures
// are classified with ErrIO, ErrUnsupportedFormat or ErrCorruptStream so
// callers can tell a missing file from a broken one.
//
// # Peak Mixing
//
// The PeakMixer reduces every interleaved frame to the largest absolute
// sample across its channels:
//
//	mags := audio.NewPeakMixer(src)
//	buf := make([]float32, 4096)
//	n, err := mags.ReadSamples(buf) // n frames, each in [0, 1]
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0].
// Decoders may overshoot slightly on clipped material; consumers clamp.
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available. Samples returned
// together with an error are valid:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // Process n samples from buf
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
