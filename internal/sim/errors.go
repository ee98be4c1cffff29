package sim

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnstable means a particle position became NaN or infinite.
var ErrUnstable = errors.New("webcloth: simulation unstable (position diverged)")

// StepError wraps an error with the frame it happened on.
type StepError struct {
	Frame   int
	Time    time.Duration
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d at %v: %v", e.Frame, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
