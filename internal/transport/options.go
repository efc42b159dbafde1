package transport

import (
	"time"

	"github.com/danmuck/calcnet/internal/protocol"
)

// Options configures a client or server adapter.
//
// Zero read and write timeouts block indefinitely, matching the protocol's
// default model. Timeouts are never inferred; callers opt in explicitly.
type Options struct {
	Name         string
	Layout       protocol.Layout
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Layout:      protocol.NetworkLayout,
		DialTimeout: 5 * time.Second,
	}
}

type Option func(*Options)

func Apply(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithName sets the label used in logs.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

func WithLayout(layout protocol.Layout) Option {
	return func(o *Options) {
		o.Layout = layout
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.DialTimeout = d
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ReadTimeout = d
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.WriteTimeout = d
	}
}
