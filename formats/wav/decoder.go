// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

type source struct {
	rs         io.ReadSeeker
	dec        *gowav.Decoder
	sampleRate int
	channels   int
	bitDepth   int

	pcmStart int64 // byte offset of the first PCM frame
	frames   int64 // frames in the data chunk
	read     int64 // samples consumed so far

	intBuf *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) Frames() int64   { return s.frames }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// The data chunk may be followed by other chunks; never read past it.
	remaining := s.frames*int64(s.channels) - s.read
	if remaining <= 0 {
		return 0, io.EOF
	}
	want := int(min(int64(len(dst)), remaining))

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data: make([]int, want),
			Format: &goaudio.Format{
				NumChannels: s.channels,
				SampleRate:  s.sampleRate,
			},
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil {
		return 0, fmt.Errorf("reading wav pcm: %w", err)
	}
	if n == 0 {
		// Truncated data chunk
		return 0, io.EOF
	}

	if s.bitDepth == 8 {
		// 8-bit WAV is unsigned
		for i := range n {
			dst[i] = utils.Uint8ToFloat32(s.intBuf.Data[i])
		}
	} else {
		for i := range n {
			dst[i] = utils.IntToFloat32(s.intBuf.Data[i], s.bitDepth)
		}
	}

	s.read += int64(n)

	return n, nil
}

// SeekFrame jumps to frame inside the data chunk. Seeking to or past the end
// leaves the source at EOF.
func (s *source) SeekFrame(frame int64) error {
	if frame < 0 {
		return audio.ErrNegativeFrame
	}
	frame = min(frame, s.frames)

	frameBytes := int64(s.channels * (s.bitDepth / 8))
	if _, err := s.rs.Seek(s.pcmStart+frame*frameBytes, io.SeekStart); err != nil {
		return fmt.Errorf("seeking wav pcm: %w", err)
	}

	// PCMBuffer reads through a limit on the data chunk that only counts
	// down, so it has to be rebuilt for what is left after frame.
	s.dec.PCMChunk.R = io.LimitReader(s.rs, (s.frames-frame)*frameBytes)
	s.read = frame * int64(s.channels)

	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, ErrUnsupportedWavLayout
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	if err := dec.FwdToPCM(); err != nil || dec.PCMChunk == nil {
		return nil, ErrUnsupportedWavChunks
	}

	pcmStart, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating wav pcm: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)

	return &source{
		rs:         rs,
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   bitDepth,
		pcmStart:   pcmStart,
		frames:     dec.PCMLen() / int64(channels*(bitDepth/8)),
	}, nil
}
