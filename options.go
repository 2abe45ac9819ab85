// SPDX-License-Identifier: EPL-2.0

package samplecache

import (
	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/block"
	"github.com/ik5/samplecache/cache"
	"github.com/ik5/samplecache/stream"
)

const (
	// DefaultMemoryBudget fits block.DefaultBlockMax slots exactly.
	DefaultMemoryBudget = int64(block.DefaultBlockMax) * cache.SlotBytes

	DefaultMaxStreams = 256
	DefaultQueueSize  = 1024
	DefaultOpenFiles  = 32
)

// Options configures a Manager. Zero fields take the defaults.
type Options struct {
	// MemoryBudget bounds the block table in bytes. The table gets the
	// largest power of two number of slots that fits, at least one.
	MemoryBudget int64

	// MaxStreams is the capacity of the stream registry.
	MaxStreams int

	// QueueSize is the number of pending block requests. Prefetches beyond
	// it are dropped.
	QueueSize int

	// OpenFiles is how many decoders the worker keeps open between requests.
	OpenFiles int

	// FileSystem opens sources. Defaults to the operating system.
	FileSystem FileSystem

	// Decoders picks a decoder by file extension. Defaults to DefaultDecoders.
	Decoders *audio.Registry

	// Prober reads stream metadata at registration. Defaults to opening the
	// file through FileSystem and Decoders.
	Prober stream.Prober
}

func (o Options) withDefaults() Options {
	if o.MemoryBudget <= 0 {
		o.MemoryBudget = DefaultMemoryBudget
	}
	if o.MaxStreams <= 0 {
		o.MaxStreams = DefaultMaxStreams
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.OpenFiles <= 0 {
		o.OpenFiles = DefaultOpenFiles
	}
	if o.FileSystem == nil {
		o.FileSystem = OSFileSystem{}
	}
	if o.Decoders == nil {
		o.Decoders = DefaultDecoders()
	}
	if o.Prober == nil {
		o.Prober = &probe{fs: o.FileSystem, decoders: o.Decoders}
	}

	return o
}
