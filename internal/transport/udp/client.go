package udp

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/danmuck/calcnet/internal/transport"
)

var ErrClientClosed = errors.New("udp: client closed")

// Client sends each request as one datagram to a fixed server address.
// A malformed reply does not affect later calls.
type Client struct {
	opts transport.Options

	mu     sync.Mutex
	conn   net.Conn
	buf    []byte
	closed bool
}

// Dial resolves addr once and binds a local socket for replies.
func Dial(ctx context.Context, addr string, opts ...transport.Option) (*Client, error) {
	o := transport.Apply(opts...)
	d := net.Dialer{Timeout: o.DialTimeout}
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{opts: o, conn: conn, buf: make([]byte, maxDatagram)}, nil
}

func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Call sends one request and waits for one reply.
func (c *Client) Call(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return protocol.Response{}, ErrClientClosed
	}
	if err := ctx.Err(); err != nil {
		return protocol.Response{}, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	layout := c.opts.Layout
	_ = c.conn.SetWriteDeadline(transport.CallDeadline(ctx, c.opts.WriteTimeout))
	if _, err := c.conn.Write(layout.EncodeRequest(req)); err != nil {
		return protocol.Response{}, transport.ContextError(ctx, err)
	}
	_ = c.conn.SetReadDeadline(transport.CallDeadline(ctx, c.opts.ReadTimeout))
	n, err := c.conn.Read(c.buf)
	if err != nil {
		return protocol.Response{}, transport.ContextError(ctx, err)
	}
	return layout.DecodeResponse(c.buf[:n])
}

func (c *Client) Stream() bool {
	return false
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
