// SPDX-License-Identifier: EPL-2.0

package samplecache

import "sync/atomic"

// Stats is a snapshot of the manager counters.
type Stats struct {
	Hits   uint64 // Sample calls served from the cache
	Misses uint64 // Sample calls that returned silence for a registered, in-range frame

	Posted  uint64 // block requests queued for the worker
	Dropped uint64 // block requests lost to a full queue

	Decoded        uint64 // requests that published a block
	DecodeFailures uint64

	Streams int
}

type counters struct {
	hits     atomic.Uint64
	misses   atomic.Uint64
	posted   atomic.Uint64
	dropped  atomic.Uint64
	decoded  atomic.Uint64
	failures atomic.Uint64
}
