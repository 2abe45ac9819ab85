// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrSeekUnsupported = errors.New("source cannot seek")
	ErrNegativeFrame   = errors.New("frame position must not be negative")
	ErrInvalidRate     = errors.New("sample rate must be positive")
)
