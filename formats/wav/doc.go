// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE files.
//
// Decoding is done by github.com/go-audio/wav. Integer PCM at 16, 24 and 32
// bits is supported, including WAVE_FORMAT_EXTENSIBLE files, with any channel
// count and sample rate. Samples are delivered as float32 in [-1.0, 1.0].
//
//	file, _ := os.Open("audio.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The frame count reported by Frames comes from the data chunk size, so it
// is exact for well-formed files.
//
// WriteWAV16 writes interleaved 16-bit PCM with a canonical 44-byte header.
// It is mostly used to produce fixtures:
//
//	samples := []int16{100, -100, 200, -200} // two stereo frames
//	err := wav.WriteWAV16(file, 8000, 2, samples)
//
// # Errors
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE file
//   - ErrUnsupportedEncoding: compressed or floating point data
//   - ErrUnsupportedBitDepth: a bit depth other than 16, 24 or 32
//   - ErrMissingDataChunk: no data chunk after the format chunk
//   - ErrInvalidLayout: WriteWAV16 was given an impossible layout
package wav
