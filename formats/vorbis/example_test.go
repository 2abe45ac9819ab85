// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/formats/vorbis"
)

// ExampleDecoder_Decode shows how to decode an Ogg Vorbis file and jump to
// its last second.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.ogg")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := vorbis.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	frames := src.(audio.Lengther).Frames()
	start := max(frames-int64(src.SampleRate()), 0)
	if err := audio.Seek(src, start, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Decoded Vorbis: %d Hz, %d channels, %d frames\n",
		src.SampleRate(), src.Channels(), frames)
}
