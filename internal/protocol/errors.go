package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrFrameSize     = errors.New("protocol: frame size mismatch")
	ErrUnknownLayout = errors.New("protocol: unknown wire layout")
)

// FrameError reports a record whose byte count did not match the layout size.
// Err holds the transport error that cut a stream read short, if any.
type FrameError struct {
	Got  int
	Want int
	Err  error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol: frame size mismatch: got %d bytes, want %d: %v", e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("protocol: frame size mismatch: got %d bytes, want %d", e.Got, e.Want)
}

func (e *FrameError) Is(target error) bool {
	return target == ErrFrameSize
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
