// SPDX-License-Identifier: EPL-2.0

package samplecache

import (
	"fmt"
	"path/filepath"

	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/formats/aiff"
	"github.com/ik5/samplecache/formats/mp3"
	"github.com/ik5/samplecache/formats/vorbis"
	"github.com/ik5/samplecache/formats/wav"
	"github.com/ik5/samplecache/stream"
)

// DefaultDecoders returns a registry with every built-in container format.
func DefaultDecoders() *audio.Registry {
	r := audio.NewRegistry()

	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})

	return r
}

// openSource opens path and wraps it in the decoder for its extension. The
// file is closed on failure.
func openSource(fs FileSystem, decoders *audio.Registry, path string) (File, audio.Source, error) {
	dec, ok := decoders.ForPath(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return f, src, nil
}

// probe is the default stream.Prober: it reads the container header and,
// for formats that do not record their length, decodes to the end.
type probe struct {
	fs       FileSystem
	decoders *audio.Registry
}

func (p *probe) Probe(path string) (stream.Metadata, error) {
	f, src, err := openSource(p.fs, p.decoders, path)
	if err != nil {
		return stream.Metadata{}, err
	}
	defer f.Close()
	defer src.Close()

	channels := src.Channels()
	if channels <= 0 || channels > 0xFFFF {
		return stream.Metadata{}, fmt.Errorf("%d channels", channels)
	}

	frames, err := audio.Length(src, make([]float32, 4096*channels))
	if err != nil {
		return stream.Metadata{}, fmt.Errorf("measuring %s: %w", path, err)
	}

	return stream.Metadata{
		SampleRate: uint32(src.SampleRate()),
		Channels:   uint16(channels),
		Frames:     uint64(frames),
	}, nil
}
