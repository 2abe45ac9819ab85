// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// ID identifies a registered audio source. It is derived from the resolved
// path only, so the same file always gets the same ID.
type ID uint64

func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Metadata describes a registered stream. It is immutable once registered.
type Metadata struct {
	ID         ID
	Path       string // resolved
	SampleRate uint32
	Channels   uint16
	Frames     uint64 // per channel
}

// Blocks is the number of blocks needed to cover one channel.
func (m *Metadata) Blocks(framesPerBlock uint64) uint64 {
	return (m.Frames + framesPerBlock - 1) / framesPerBlock
}

// Resolve returns the absolute, cleaned form of path.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}

	return filepath.Clean(abs), nil
}

// IDOf hashes an already resolved path.
func IDOf(resolved string) ID {
	return ID(xxhash.Sum64String(resolved))
}

// Prober learns the layout of a source from its header.
type Prober interface {
	// Probe fills SampleRate, Channels and Frames for the file at path.
	Probe(path string) (Metadata, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(path string) (Metadata, error)

func (f ProberFunc) Probe(path string) (Metadata, error) { return f(path) }
