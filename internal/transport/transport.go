// Package transport holds what the TCP and UDP adapters share: the handler
// contract and the option set. Only the I/O loop differs per adapter.
package transport

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/danmuck/calcnet/internal/protocol"
)

// Handler answers one decoded request.
type Handler interface {
	Handle(protocol.Request) protocol.Response
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(protocol.Request) protocol.Response

func (f HandlerFunc) Handle(req protocol.Request) protocol.Response {
	return f(req)
}

// FrameObserver is notified when a received record has the wrong size.
type FrameObserver interface {
	FrameError()
}

// SessionObserver is notified when a stream session is accepted.
type SessionObserver interface {
	SessionStarted()
}

func NotifyFrameError(h Handler) {
	if o, ok := h.(FrameObserver); ok {
		o.FrameError()
	}
}

func NotifySession(h Handler) {
	if o, ok := h.(SessionObserver); ok {
		o.SessionStarted()
	}
}

// Deadline returns the absolute deadline for an I/O step of length d,
// or the zero time when d is not positive (block indefinitely).
func Deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return time.Now().Add(d)
}

// CallDeadline picks the earlier of the ctx deadline and timeout.
func CallDeadline(ctx context.Context, timeout time.Duration) time.Time {
	dl := Deadline(timeout)
	if ctxDL, ok := ctx.Deadline(); ok && (dl.IsZero() || ctxDL.Before(dl)) {
		return ctxDL
	}
	return dl
}

// IsTimeout reports whether err is a network timeout.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ContextError reports a deadline hit caused by ctx as the ctx error.
func ContextError(ctx context.Context, err error) error {
	if !IsTimeout(err) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return context.DeadlineExceeded
	}
	return err
}
