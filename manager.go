// SPDX-License-Identifier: EPL-2.0

package samplecache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ik5/samplecache/block"
	"github.com/ik5/samplecache/cache"
	"github.com/ik5/samplecache/stream"
	"github.com/ossrs/go-oryx-lib/logger"
)

type request struct {
	addr block.Address
}

// Manager owns the block cache, the stream registry and the decode worker.
//
// Sample, Prefetch and Resident are safe to call from a real-time audio
// thread: they never block, allocate, or lock. Everything else may do I/O.
type Manager struct {
	opts Options

	streams  *stream.Registry
	blocks   *cache.Cache
	history  *cache.History
	requests chan request
	stats    counters
	worker   *worker

	closed atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New allocates a manager and all of its memory. The worker is not running
// until Start.
func New(opts Options) (*Manager, error) {
	opts = opts.withDefaults()

	m := &Manager{
		opts:     opts,
		streams:  stream.NewRegistry(opts.MaxStreams, opts.Prober),
		blocks:   cache.New(cache.SlotsForBudget(opts.MemoryBudget)),
		history:  cache.NewHistory(),
		requests: make(chan request, opts.QueueSize),
	}

	w, err := newWorker(m, opts.OpenFiles)
	if err != nil {
		return nil, err
	}
	m.worker = w

	return m, nil
}

// Start launches the decode worker. It runs until Stop, Close or ctx is done.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Load() {
		return ErrClosed
	}
	if m.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(logger.WithContext(ctx))
	done := make(chan struct{})
	m.cancel, m.done = cancel, done

	go m.run(ctx, done)

	return nil
}

// Stop signals the worker and waits for it to return. The block being
// decoded is finished; queued requests are kept for the next Start.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stopLocked()
}

func (m *Manager) stopLocked() error {
	if m.cancel == nil {
		return ErrNotStarted
	}

	m.cancel()
	<-m.done
	m.cancel, m.done = nil, nil

	return nil
}

// Close stops the worker and releases every open source. After Close,
// Sample returns silence and Prefetch does nothing.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Swap(true) {
		return ErrClosed
	}

	if m.cancel != nil {
		_ = m.stopLocked()
	}
	m.worker.closeAll()

	return nil
}

func (m *Manager) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	logger.Tf(ctx, "decode worker start, slots=%v, queue=%v, streams=%v",
		m.blocks.Len(), cap(m.requests), m.streams.Len())

	for {
		select {
		case <-ctx.Done():
			logger.Tf(ctx, "decode worker quit, pending=%v", len(m.requests))
			return
		case req := <-m.requests:
			m.worker.serve(ctx, req.addr)
		}
	}
}

// RegisterOrGet returns the stream for path, probing the file the first time
// the path is seen. Not real-time safe.
func (m *Manager) RegisterOrGet(path string) (stream.ID, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}

	return m.streams.RegisterOrGet(path)
}

// Metadata returns what registration learned about id.
func (m *Manager) Metadata(id stream.ID) (stream.Metadata, error) {
	md, ok := m.streams.Lookup(id)
	if !ok {
		return stream.Metadata{}, ErrUnknownStream
	}

	return *md, nil
}

// locate checks frame and channel against the stream layout.
func (m *Manager) locate(id stream.ID, frame uint64, channel int) (block.Address, bool) {
	md, ok := m.streams.Lookup(id)
	if !ok || frame >= md.Frames || channel < 0 || channel >= int(md.Channels) {
		return block.Address{}, false
	}

	return block.Of(uint64(id), frame, channel), true
}

// Sample returns one decoded sample. A block that is not resident yields
// silence and is requested from the worker. Frames past the end, channels
// the stream does not have and unknown streams yield silence without a
// request.
func (m *Manager) Sample(id stream.ID, frame uint64, channel int) float64 {
	if m.closed.Load() {
		return 0
	}

	addr, ok := m.locate(id, frame, channel)
	if !ok {
		return 0
	}

	if v, hit := m.blocks.Read(addr, block.Offset(frame)); hit {
		m.stats.hits.Add(1)
		return v
	}

	m.stats.misses.Add(1)
	m.post(addr)

	return 0
}

// Prefetch asks the worker to load the block holding frame. The request is
// advisory: it is skipped when the block is resident or already requested,
// and dropped when the queue is full.
func (m *Manager) Prefetch(id stream.ID, frame uint64, channel int) {
	if m.closed.Load() {
		return
	}

	if addr, ok := m.locate(id, frame, channel); ok {
		m.post(addr)
	}
}

// Resident reports whether the block holding frame is in the cache.
func (m *Manager) Resident(id stream.ID, frame uint64, channel int) bool {
	addr, ok := m.locate(id, frame, channel)
	return ok && m.blocks.Holds(addr)
}

// post queues addr for the worker unless it is resident or already asked for.
// A full queue drops the request and forgets it so a later miss can retry.
func (m *Manager) post(addr block.Address) {
	if m.blocks.Holds(addr) || m.history.Contains(addr) {
		return
	}

	m.history.Record(addr)

	select {
	case m.requests <- request{addr: addr}:
		m.stats.posted.Add(1)
	default:
		m.history.Forget(addr)
		m.stats.dropped.Add(1)
	}
}

// Stats returns the current counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Hits:           m.stats.hits.Load(),
		Misses:         m.stats.misses.Load(),
		Posted:         m.stats.posted.Load(),
		Dropped:        m.stats.dropped.Load(),
		Decoded:        m.stats.decoded.Load(),
		DecodeFailures: m.stats.failures.Load(),
		Streams:        m.streams.Len(),
	}
}

// Footprint is the memory held by the block table in bytes, independent of
// the number or length of registered streams.
func (m *Manager) Footprint() int64 { return m.blocks.Footprint() }

// Slots is the number of blocks the cache can hold.
func (m *Manager) Slots() int { return m.blocks.Len() }
