package tcp

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/danmuck/calcnet/internal/transport"
)

// Client holds one persistent connection. Any failed call closes it.
type Client struct {
	opts transport.Options

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

func Dial(ctx context.Context, addr string, opts ...transport.Option) (*Client, error) {
	o := transport.Apply(opts...)
	d := net.Dialer{Timeout: o.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{opts: o, conn: conn}, nil
}

func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Call writes one request and reads its response.
func (c *Client) Call(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return protocol.Response{}, ErrClientClosed
	}

	resp, err := c.exchange(ctx, req)
	if err != nil {
		c.closed = true
		_ = c.conn.Close()
		return protocol.Response{}, transport.ContextError(ctx, err)
	}
	return resp, nil
}

func (c *Client) exchange(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Response{}, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	_ = c.conn.SetWriteDeadline(transport.CallDeadline(ctx, c.opts.WriteTimeout))
	if err := c.opts.Layout.WriteRequest(c.conn, req); err != nil {
		return protocol.Response{}, err
	}
	_ = c.conn.SetReadDeadline(transport.CallDeadline(ctx, c.opts.ReadTimeout))
	return c.opts.Layout.ReadResponse(c.conn)
}

// Stream reports that a malformed response desynchronizes this client.
func (c *Client) Stream() bool {
	return true
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

