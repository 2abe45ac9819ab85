// SPDX-License-Identifier: EPL-2.0

package samplecache

import (
	"io"

	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/block"
	"github.com/ik5/samplecache/stream"
)

// reader plays a frame range of one stream out of the cache. Frames that are
// not resident read as silence and are requested like any other miss.
type reader struct {
	m     *Manager
	md    stream.Metadata
	start uint64
	next  uint64
	end   uint64
}

// Reader returns an audio.Source over frames [start, start+frames) of id,
// clipped to the stream length. It reads through Sample, so it is as
// non-blocking as the audio callback and never touches the file itself.
func (m *Manager) Reader(id stream.ID, start, frames uint64) (audio.Source, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}

	md, err := m.Metadata(id)
	if err != nil {
		return nil, err
	}

	start = min(start, md.Frames)
	return &reader{
		m:     m,
		md:    md,
		start: start,
		next:  start,
		end:   start + min(frames, md.Frames-start),
	}, nil
}

func (r *reader) SampleRate() int { return int(r.md.SampleRate) }
func (r *reader) Channels() int   { return int(r.md.Channels) }
func (r *reader) BufSize() int    { return block.FramesPerBlock * int(r.md.Channels) }
func (r *reader) Close() error    { return nil }

// Frames implements audio.Lengther.
func (r *reader) Frames() int64 { return int64(r.end - r.start) }

func (r *reader) ReadSamples(dst []float32) (int, error) {
	channels := int(r.md.Channels)
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if r.next >= r.end {
		return 0, io.EOF
	}

	frames := min(uint64(len(dst)/channels), r.end-r.next)
	for f := range frames {
		for c := range channels {
			dst[int(f)*channels+c] = float32(r.m.Sample(r.md.ID, r.next+f, c))
		}
	}
	r.next += frames

	return int(frames) * channels, nil
}
