// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"

	"github.com/ik5/samplecache/formats/wav"
	"github.com/ik5/samplecache/utils"
)

// WAV16 renders frames of waveform as a 16-bit PCM WAV file.
func WAV16(sampleRate, channels, frames int, waveform func(frame, channel int) float32) []byte {
	samples := make([]int16, frames*channels)
	for f := range frames {
		for c := range channels {
			samples[f*channels+c] = utils.Float32ToInt16(waveform(f, c))
		}
	}

	buf := new(bytes.Buffer)
	if err := wav.WritePCM16(buf, sampleRate, channels, samples); err != nil {
		// bytes.Buffer does not fail and the layout is valid by construction
		panic(err)
	}

	return buf.Bytes()
}

// Quantize16 is the value a float32 sample decodes to after a 16-bit
// round trip through WAV16 with no clipping.
func Quantize16(v float32) float64 {
	return float64(utils.Float32ToInt16(v)) / 32768.0
}
