// SPDX-License-Identifier: EPL-2.0

package samplecache

import (
	"io"
	"os"
)

// File is an open audio source.
type File interface {
	io.ReadSeeker
	io.Closer
}

// FileSystem resolves a registered path to its bytes. Only the decode worker
// and registration call it.
type FileSystem interface {
	Open(path string) (File, error)
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
