// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"

	"github.com/ik5/samplecache/block"
)

var (
	ErrCapacityExceeded = errors.New("stream table is full")
	ErrUnreadableSource = errors.New("cannot probe audio source")
	ErrIDCollision      = errors.New("stream id collision between distinct paths")

	// ErrTooManyChannels is also an ErrUnreadableSource.
	ErrTooManyChannels = fmt.Errorf("%w: more than %d channels", ErrUnreadableSource, block.ChannelMax)
)
