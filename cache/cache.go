// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/ik5/samplecache/block"
)

// slot is one cache line of the direct-mapped table.
//
// seq is zero until the first publish, odd while the writer is filling the
// slot and even once the tag and payload are consistent.
type slot struct {
	seq    atomic.Uint64
	stream atomic.Uint64
	packed atomic.Uint64
}

// Cache is a fixed-capacity, direct-mapped array of sample blocks.
//
// Read may be called from any number of goroutines; Publish must only be
// called from a single writer goroutine.
type Cache struct {
	slots   []slot
	samples []atomic.Uint64 // float64 bits, FramesPerBlock per slot
	mask    uint64
}

// SlotOverhead is the per-slot tag cost in bytes.
const SlotOverhead = int(unsafe.Sizeof(slot{}))

// SlotBytes is the full cost of one slot in bytes: payload plus tag.
const SlotBytes = int64(block.FramesPerBlock*8 + SlotOverhead)

// New allocates a cache of n slots. n is rounded down to a power of two and
// is at least one.
func New(n int) *Cache {
	size := 1
	for size*2 <= n {
		size <<= 1
	}

	return &Cache{
		slots:   make([]slot, size),
		samples: make([]atomic.Uint64, size*block.FramesPerBlock),
		mask:    uint64(size - 1),
	}
}

// SlotsForBudget returns the largest power of two number of slots whose
// footprint fits into budget bytes, never less than one.
func SlotsForBudget(budget int64) int {
	size := 1
	for int64(size*2)*SlotBytes <= budget {
		size <<= 1
	}

	return size
}

// Len is the number of slots.
func (c *Cache) Len() int { return len(c.slots) }

// Mask is Len()-1, the value passed to block.SlotIndex.
func (c *Cache) Mask() uint64 { return c.mask }

// Footprint is the exact memory held by the table in bytes.
func (c *Cache) Footprint() int64 {
	return int64(len(c.slots))*int64(SlotOverhead) + int64(len(c.samples))*8
}

// Slot returns the slot index addr maps to.
func (c *Cache) Slot(addr block.Address) uint64 {
	return block.SlotIndex(addr, c.mask)
}

// Read returns the sample at offset inside addr's block and whether the slot
// currently holds addr. On a miss the value is 0.
func (c *Cache) Read(addr block.Address, offset int) (float64, bool) {
	i := block.SlotIndex(addr, c.mask)
	s := &c.slots[i]

	seq := s.seq.Load()
	if seq == 0 || seq&1 == 1 {
		return 0, false
	}

	if s.stream.Load() != addr.Stream || s.packed.Load() != block.Pack(addr) {
		return 0, false
	}

	v := c.samples[i*block.FramesPerBlock+uint64(offset)].Load()

	if s.seq.Load() != seq {
		return 0, false
	}

	return math.Float64frombits(v), true
}

// Holds reports whether the slot for addr is populated with addr.
func (c *Cache) Holds(addr block.Address) bool {
	s := &c.slots[block.SlotIndex(addr, c.mask)]

	seq := s.seq.Load()
	if seq == 0 || seq&1 == 1 {
		return false
	}

	return s.stream.Load() == addr.Stream && s.packed.Load() == block.Pack(addr) && s.seq.Load() == seq
}

// Publish copies samples into addr's slot and makes it visible to readers.
// Missing trailing samples are written as silence. Single writer only.
func (c *Cache) Publish(addr block.Address, samples []float64) {
	i := block.SlotIndex(addr, c.mask)
	s := &c.slots[i]

	s.seq.Add(1)

	payload := c.samples[i*block.FramesPerBlock : (i+1)*block.FramesPerBlock]
	for j := range payload {
		var v float64
		if j < len(samples) {
			v = samples[j]
		}
		payload[j].Store(math.Float64bits(v))
	}

	s.stream.Store(addr.Stream)
	s.packed.Store(block.Pack(addr))

	s.seq.Add(1)
}
