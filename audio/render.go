// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/samplecache/utils"
)

// Render16 drains src into interleaved 16-bit PCM, reading bufFrames frames
// at a time.
func Render16(src Source, bufFrames int) ([]int16, error) {
	channels := src.Channels()
	if channels <= 0 || bufFrames <= 0 {
		return nil, ErrInvalidDstSize
	}

	var out []int16
	if l, ok := src.(Lengther); ok && l.Frames() > 0 {
		out = make([]int16, 0, l.Frames()*int64(channels))
	}

	buf := make([]float32, bufFrames*channels)
	for {
		n, err := ReadFrames(src, buf)
		out = utils.AppendInt16(out, buf[:n*channels])
		if err != nil {
			return out, fmt.Errorf("%w", err)
		}
		if n < bufFrames {
			return out, nil
		}
	}
}
