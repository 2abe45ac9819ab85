// SPDX-License-Identifier: EPL-2.0

package samplecache

import "errors"

var (
	ErrClosed            = errors.New("sample cache is closed")
	ErrAlreadyStarted    = errors.New("decode worker already running")
	ErrNotStarted        = errors.New("decode worker not running")
	ErrUnknownStream     = errors.New("stream is not registered")
	ErrUnsupportedFormat = errors.New("no decoder for file format")
	ErrDecodeFailure     = errors.New("block decode failed")
)
