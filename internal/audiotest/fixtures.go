// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/ik5/audpeaks/formats/wav"
	"github.com/ik5/audpeaks/utils"
)

// WriteSineWAV writes a 16-bit WAV of frames frames carrying a sine wave of
// the given frequency and amplitude on every channel.
func WriteSineWAV(path string, sampleRate, channels, frames int, frequency float64, amplitude float32) error {
	samples := make([]int16, frames*channels)
	for f := range frames {
		t := float64(f) / float64(sampleRate)
		v := utils.Float32ToInt16(amplitude * float32(math.Sin(2*math.Pi*frequency*t)))
		for ch := range channels {
			samples[f*channels+ch] = v
		}
	}

	return writeWAV(path, sampleRate, channels, samples)
}

// WriteConstantWAV writes a 16-bit WAV holding value on every sample.
func WriteConstantWAV(path string, sampleRate, channels, frames int, value float32) error {
	samples := make([]int16, frames*channels)
	v := utils.Float32ToInt16(value)
	for i := range samples {
		samples[i] = v
	}

	return writeWAV(path, sampleRate, channels, samples)
}

func writeWAV(path string, sampleRate, channels int, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating fixture: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := wav.WriteWAV16(w, sampleRate, channels, samples); err != nil {
		f.Close()
		return fmt.Errorf("writing fixture: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing fixture: %w", err)
	}

	return f.Close()
}
