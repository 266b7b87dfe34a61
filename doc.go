// SPDX-License-Identifier: EPL-2.0

// Package audpeaks turns audio files into waveform peak series for display.
//
// A peak series holds one magnitude per fixed window of audio frames: the
// largest absolute sample across the window and all of its channels. Max-abs
// keeps percussive transients visible where an average would smear them.
//
// # Supported Formats
//
// The bundled decoders cover:
//   - WAV (PCM 16, 24 and 32-bit) via formats/wav
//   - AIFF (PCM 8, 16, 24 and 32-bit) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//
// NewRegistry wires them all up by file extension. Files with a missing or
// misleading extension are recognized from their header.
//
// # Quick Start
//
//	series, info, err := audpeaks.PeaksFile("song.wav")
//	if err != nil {
//	    return err
//	}
//	bars := display.Resample(series, display.Layout{Width: 200, BarWidth: 2, MinGap: 1})
//
// # Streaming
//
// Long files take a while to decode. The waveform package runs generation in
// the background, streams partial series to subscribers while decoding
// continues, and stores finished series in the cache package:
//
//	gen := waveform.New(library, audpeaks.NewRegistry(), cache.New(blobs))
//	sub, err := gen.Request(ctx, trackID)
//	for ev := range sub.C {
//	    surface.Apply(ev)
//	}
//
// See the individual subpackages for more detailed documentation.
package audpeaks
