package transport

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/danmuck/calcnet/internal/protocol"
)

func TestApplyDefaults(t *testing.T) {
	o := Apply()
	if o.Layout.Name() != protocol.LayoutNetwork {
		t.Fatalf("expected network layout by default, got %q", o.Layout.Name())
	}
	if o.ReadTimeout != 0 || o.WriteTimeout != 0 {
		t.Fatalf("expected blocking I/O by default, got read=%v write=%v", o.ReadTimeout, o.WriteTimeout)
	}
	if o.DialTimeout != 5*time.Second {
		t.Fatalf("expected 5s dial timeout, got %v", o.DialTimeout)
	}
}

func TestApplyOptions(t *testing.T) {
	o := Apply(
		WithName("udp-test"),
		WithLayout(protocol.LegacyLayout),
		WithReadTimeout(time.Second),
		WithWriteTimeout(2*time.Second),
		WithDialTimeout(0),
		nil,
	)
	if o.Name != "udp-test" || o.Layout != protocol.LegacyLayout {
		t.Fatalf("unexpected options %+v", o)
	}
	if o.ReadTimeout != time.Second || o.WriteTimeout != 2*time.Second || o.DialTimeout != 0 {
		t.Fatalf("unexpected timeouts %+v", o)
	}
}

func TestDeadline(t *testing.T) {
	if !Deadline(0).IsZero() || !Deadline(-time.Second).IsZero() {
		t.Fatalf("non-positive timeout must block indefinitely")
	}
	if dl := Deadline(time.Minute); time.Until(dl) <= 0 {
		t.Fatalf("expected future deadline, got %v", dl)
	}
}

func TestCallDeadlinePrefersEarlier(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ctxDL, _ := ctx.Deadline()

	if got := CallDeadline(ctx, 0); !got.Equal(ctxDL) {
		t.Fatalf("expected ctx deadline, got %v", got)
	}
	if got := CallDeadline(ctx, time.Hour); !got.Equal(ctxDL) {
		t.Fatalf("expected ctx deadline over longer timeout, got %v", got)
	}
	if got := CallDeadline(ctx, time.Millisecond); !got.Before(ctxDL) {
		t.Fatalf("expected timeout deadline, got %v", got)
	}
	if got := CallDeadline(context.Background(), 0); !got.IsZero() {
		t.Fatalf("expected no deadline, got %v", got)
	}
}

type observed struct {
	frames   int
	sessions int
}

func (o *observed) Handle(protocol.Request) protocol.Response { return protocol.ErrorResponse() }
func (o *observed) FrameError()                               { o.frames++ }
func (o *observed) SessionStarted()                           { o.sessions++ }

func TestNotifyObservers(t *testing.T) {
	o := &observed{}
	NotifyFrameError(o)
	NotifySession(o)
	NotifySession(o)
	if o.frames != 1 || o.sessions != 2 {
		t.Fatalf("unexpected counts %+v", o)
	}

	// Plain handlers are skipped.
	h := HandlerFunc(func(req protocol.Request) protocol.Response { return protocol.Response{Result: req.Num1} })
	NotifyFrameError(h)
	NotifySession(h)
	if got := h.Handle(protocol.Request{Num1: 7}); got.Result != 7 {
		t.Fatalf("HandlerFunc did not pass through, got %+v", got)
	}
}

func TestContextError(t *testing.T) {
	plain := errors.New("boom")
	if got := ContextError(context.Background(), plain); got != plain {
		t.Fatalf("expected non-timeout error unchanged, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := ContextError(ctx, os.ErrDeadlineExceeded); !errors.Is(got, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", got)
	}

	if got := ContextError(context.Background(), os.ErrDeadlineExceeded); !errors.Is(got, os.ErrDeadlineExceeded) {
		t.Fatalf("expected configured timeout to pass through, got %v", got)
	}
}
