// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ik5/samplecache/block"
)

// Registry is a fixed-capacity table of stream metadata.
//
// Lookup is lock-free and allocation-free, and may be called from the
// real-time thread. RegisterOrGet probes the source and must not.
type Registry struct {
	// Open addressing over at least twice the capacity, so probing always
	// reaches an empty entry. Entries are never removed.
	table []atomic.Pointer[Metadata]
	mask  uint64

	capacity int
	count    atomic.Int64

	mu     sync.Mutex
	byPath map[string]ID
	prober Prober
}

// NewRegistry returns a registry holding at most capacity streams.
func NewRegistry(capacity int, prober Prober) *Registry {
	capacity = max(capacity, 1)

	size := 2
	for size < capacity*2 {
		size <<= 1
	}

	return &Registry{
		table:    make([]atomic.Pointer[Metadata], size),
		mask:     uint64(size - 1),
		capacity: capacity,
		byPath:   make(map[string]ID, capacity),
		prober:   prober,
	}
}

// Cap is the maximum number of streams.
func (r *Registry) Cap() int { return r.capacity }

// Len is the number of registered streams.
func (r *Registry) Len() int { return int(r.count.Load()) }

// Lookup returns the metadata registered for id.
func (r *Registry) Lookup(id ID) (*Metadata, bool) {
	for i := uint64(id) & r.mask; ; i = (i + 1) & r.mask {
		md := r.table[i].Load()
		if md == nil {
			return nil, false
		}
		if md.ID == id {
			return md, true
		}
	}
}

// RegisterOrGet returns the ID for path, probing and inserting the source the
// first time the resolved path is seen.
func (r *Registry) RegisterOrGet(path string) (ID, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPath[resolved]; ok {
		return id, nil
	}

	id := IDOf(resolved)
	if md, ok := r.Lookup(id); ok {
		return 0, fmt.Errorf("%w: %q and %q", ErrIDCollision, md.Path, resolved)
	}

	if int(r.count.Load()) >= r.capacity {
		return 0, fmt.Errorf("%w: %d streams", ErrCapacityExceeded, r.capacity)
	}

	md, err := r.prober.Probe(resolved)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, resolved, err)
	}

	switch {
	case md.Channels == 0 || md.SampleRate == 0:
		return 0, fmt.Errorf("%w: %s: %d channels at %d Hz", ErrUnreadableSource, resolved, md.Channels, md.SampleRate)
	case md.Channels > block.ChannelMax:
		return 0, fmt.Errorf("%w: %s has %d", ErrTooManyChannels, resolved, md.Channels)
	}

	md.ID = id
	md.Path = resolved
	r.insert(&md)
	r.byPath[resolved] = id

	return id, nil
}

// insert is called with mu held.
func (r *Registry) insert(md *Metadata) {
	for i := uint64(md.ID) & r.mask; ; i = (i + 1) & r.mask {
		if r.table[i].Load() == nil {
			r.table[i].Store(md)
			r.count.Add(1)
			return
		}
	}
}

// Each calls fn for every registered stream until fn returns false. The
// order is unspecified.
func (r *Registry) Each(fn func(*Metadata) bool) {
	for i := range r.table {
		if md := r.table[i].Load(); md != nil && !fn(md) {
			return
		}
	}
}
