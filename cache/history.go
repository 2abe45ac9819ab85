// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"sync/atomic"

	"github.com/ik5/samplecache/block"
)

// HistorySize is the number of addresses remembered by a History.
const HistorySize = 256

// noPacked never equals block.Pack of an address built by block.Of: a 64-bit
// frame index yields at most a 55-bit block index.
const noPacked = ^uint64(0)

type entry struct {
	stream atomic.Uint64
	packed atomic.Uint64
}

// History is a fixed ring of recently requested block addresses.
//
// It is consulted before a prefetch is posted so the same block is not
// queued twice while a request for it is outstanding. Concurrent writers may
// overwrite each other's entries; the worst outcome is a redundant or a
// skipped advisory request.
type History struct {
	entries [HistorySize]entry
	next    atomic.Uint64
}

// NewHistory returns an empty ring.
func NewHistory() *History {
	h := &History{}
	for i := range h.entries {
		h.entries[i].packed.Store(noPacked)
	}

	return h
}

// Contains reports whether addr is in the ring.
func (h *History) Contains(addr block.Address) bool {
	p := block.Pack(addr)

	for i := range h.entries {
		e := &h.entries[i]
		if e.packed.Load() == p && e.stream.Load() == addr.Stream {
			return true
		}
	}

	return false
}

// Record appends addr, overwriting the oldest entry.
func (h *History) Record(addr block.Address) {
	i := (h.next.Add(1) - 1) % HistorySize
	e := &h.entries[i]

	e.packed.Store(noPacked)
	e.stream.Store(addr.Stream)
	e.packed.Store(block.Pack(addr))
}

// Forget clears every entry holding addr.
func (h *History) Forget(addr block.Address) {
	p := block.Pack(addr)

	for i := range h.entries {
		e := &h.entries[i]
		if e.packed.Load() == p && e.stream.Load() == addr.Stream {
			e.packed.CompareAndSwap(p, noPacked)
		}
	}
}

// Len counts the live entries.
func (h *History) Len() int {
	n := 0
	for i := range h.entries {
		if h.entries[i].packed.Load() != noPacked {
			n++
		}
	}

	return n
}
