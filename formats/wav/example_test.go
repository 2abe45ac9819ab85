// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/formats/wav"
)

// Example_seek demonstrates random access into a WAV file.
func Example_seek() {
	// Two seconds of a mono ramp at 8 kHz
	samples := make([]int16, 16000)
	for i := range samples {
		samples[i] = int16(i)
	}
	data := new(bytes.Buffer)
	_ = wav.WriteWAV16(data, 8000, samples)

	src, err := wav.Decoder{}.Decode(bytes.NewReader(data.Bytes()))
	if err != nil {
		fmt.Printf("decode error: %v\n", err)
		return
	}

	fmt.Printf("Frames: %d\n", src.(audio.Lengther).Frames())

	// Jump to the start of the third 512-frame block
	if err := src.(audio.Seeker).SeekFrame(1024); err != nil {
		fmt.Printf("seek error: %v\n", err)
		return
	}

	buf := make([]float32, 1)
	_, _ = audio.ReadFrames(src, buf)
	fmt.Printf("First sample: %d\n", int(buf[0]*32768))
	// Output:
	// Frames: 16000
	// First sample: 1024
}
