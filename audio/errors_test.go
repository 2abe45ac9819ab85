// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidDstSize, "dst size must be multiple of channels"},
		{ErrSeekUnsupported, "source cannot seek"},
		{ErrNegativeFrame, "frame position must not be negative"},
		{ErrInvalidRate, "sample rate must be positive"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestErrors_Distinct(t *testing.T) {
	t.Parallel()

	errs := []error{ErrInvalidDstSize, ErrSeekUnsupported, ErrNegativeFrame, ErrInvalidRate}
	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}

func TestErrors_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: 0 Hz to 8000 Hz", ErrInvalidRate)
	if !errors.Is(err, ErrInvalidRate) {
		t.Error("errors.Is() failed for wrapped ErrInvalidRate")
	}
}
