// SPDX-License-Identifier: EPL-2.0

package samplecache

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/block"
	"github.com/ik5/samplecache/stream"
	"github.com/ossrs/go-oryx-lib/logger"
)

// handle is an open decoder positioned at pos.
type handle struct {
	path string
	file File
	src  audio.Source
	pos  int64 // next frame src will produce
}

func (h *handle) close() error {
	return errors.Join(h.src.Close(), h.file.Close())
}

// worker is the only writer of the block cache. Everything here runs on the
// worker goroutine, except closeAll which runs after it stopped.
type worker struct {
	m *Manager

	// ctx is the context of the current run, used by the eviction callback.
	ctx     context.Context
	handles *lru.Cache // stream.ID -> *handle

	interleaved []float32   // one block of up to ChannelMax channels
	planes      [][]float64 // per-channel block
	scratch     []float32   // forward skipping
}

func newWorker(m *Manager, openFiles int) (*worker, error) {
	w := &worker{
		m:           m,
		ctx:         logger.WithContext(context.Background()),
		interleaved: make([]float32, block.FramesPerBlock*block.ChannelMax),
		planes:      make([][]float64, block.ChannelMax),
		scratch:     make([]float32, 4*block.FramesPerBlock*block.ChannelMax),
	}
	for c := range w.planes {
		w.planes[c] = make([]float64, block.FramesPerBlock)
	}

	handles, err := lru.NewWithEvict(openFiles, func(key, value interface{}) {
		h := value.(*handle)
		if err := h.close(); err != nil {
			logger.Wf(w.ctx, "close %v err %+v", h.path, err)
			return
		}
		logger.Tf(w.ctx, "close %v at frame %v", h.path, h.pos)
	})
	if err != nil {
		return nil, fmt.Errorf("creating handle cache: %w", err)
	}
	w.handles = handles

	return w, nil
}

// serve decodes the block holding addr and publishes every channel of it.
// addr leaves the history before the counters move.
func (w *worker) serve(ctx context.Context, addr block.Address) {
	w.ctx = ctx

	id := stream.ID(addr.Stream)
	md, ok := w.m.streams.Lookup(id)
	if !ok {
		w.m.history.Forget(addr)
		logger.Wf(ctx, "drop block %v of unregistered stream %v", addr.Index, id)
		return
	}
	if int(addr.Channel) >= int(md.Channels) || addr.Start() >= md.Frames {
		w.m.history.Forget(addr)
		logger.Wf(ctx, "drop block %v channel %v of %v, out of range", addr.Index, addr.Channel, md.Path)
		return
	}

	// A sibling channel's request may already have brought it in.
	if w.m.blocks.Holds(addr) {
		w.m.history.Forget(addr)
		return
	}

	n, err := w.decode(md, addr.Start())
	if err != nil {
		// The decoder position is unknown after a failure.
		w.handles.Remove(id)
		w.m.history.Forget(addr)
		w.m.stats.failures.Add(1)
		logger.Wf(ctx, "decode %v block %v err %+v", md.Path, addr.Index, err)
		return
	}

	w.publish(md, addr, n)
	w.m.history.Forget(addr)
	w.m.stats.decoded.Add(1)
}

// decode fills planes with up to one block of frames starting at start and
// returns how many frames were read.
func (w *worker) decode(md *stream.Metadata, start uint64) (int, error) {
	h, err := w.open(md)
	if err != nil {
		return 0, err
	}

	if h, err = w.seek(md, h, int64(start)); err != nil {
		return 0, fmt.Errorf("%w: seek to %v: %w", ErrDecodeFailure, start, err)
	}

	channels := int(md.Channels)
	frames := int(min(uint64(block.FramesPerBlock), md.Frames-start))
	buf := w.interleaved[:frames*channels]

	n, err := audio.ReadFrames(h.src, buf)
	h.pos += int64(n)
	if err != nil {
		return 0, fmt.Errorf("%w: read at %v: %w", ErrDecodeFailure, start, err)
	}
	if n < frames {
		return 0, fmt.Errorf("%w: source ends at frame %v, want %v", ErrDecodeFailure, start+uint64(n), start+uint64(frames))
	}

	audio.Deinterleave(buf, channels, n, w.planes)

	return n, nil
}

// publish writes the sibling channels of the block, then the requested one.
// A sibling that maps to the requested channel's slot is skipped, it would
// evict the block the reader is waiting for. The last block of a stream is
// shorter than FramesPerBlock and its tail reads silent.
func (w *worker) publish(md *stream.Metadata, addr block.Address, frames int) {
	mask := w.m.blocks.Mask()
	slot := block.SlotIndex(addr, mask)

	for c := range int(md.Channels) {
		if c == int(addr.Channel) {
			continue
		}
		sibling := addr
		sibling.Channel = uint8(c)
		if block.SlotIndex(sibling, mask) == slot {
			continue
		}
		w.m.blocks.Publish(sibling, w.planes[c][:frames])
	}

	w.m.blocks.Publish(addr, w.planes[addr.Channel][:frames])
}

func (w *worker) open(md *stream.Metadata) (*handle, error) {
	if v, ok := w.handles.Get(md.ID); ok {
		return v.(*handle), nil
	}

	f, src, err := openSource(w.m.opts.FileSystem, w.m.opts.Decoders, md.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	h := &handle{path: md.Path, file: f, src: src}
	if src.Channels() != int(md.Channels) {
		_ = h.close()
		return nil, fmt.Errorf("%w: %v now has %v channels, registered with %v",
			ErrDecodeFailure, md.Path, src.Channels(), md.Channels)
	}

	w.handles.Add(md.ID, h)
	logger.Tf(w.ctx, "open %v, rate=%v, channels=%v, frames=%v", md.Path, md.SampleRate, md.Channels, md.Frames)

	return h, nil
}

// seek positions h at frame. Sources without random access are skipped
// forward, or reopened when the target is behind them.
func (w *worker) seek(md *stream.Metadata, h *handle, frame int64) (*handle, error) {
	if h.pos == frame {
		return h, nil
	}

	if s, ok := h.src.(audio.Seeker); ok {
		if err := s.SeekFrame(frame); err != nil {
			return h, err
		}
		h.pos = frame
		return h, nil
	}

	if frame < h.pos {
		w.handles.Remove(md.ID)

		var err error
		if h, err = w.open(md); err != nil {
			return nil, err
		}
	}

	if err := audio.Skip(h.src, frame-h.pos, w.scratch); err != nil {
		return h, err
	}
	h.pos = frame

	return h, nil
}

// closeAll releases every open source.
func (w *worker) closeAll() {
	w.handles.Purge()
}
