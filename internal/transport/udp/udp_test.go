package udp

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/danmuck/calcnet/internal/calc"
	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/danmuck/calcnet/internal/testutil/testlog"
	"github.com/danmuck/calcnet/internal/transport"
)

func startServer(t *testing.T, handler transport.Handler, opts ...transport.Option) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(handler, opts...)
	if err := srv.Listen(ctx, "127.0.0.1:0"); err != nil {
		cancel()
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("serve did not stop after cancel")
		}
	})
	return srv.Addr().String()
}

func dialClient(t *testing.T, addr string, opts ...transport.Option) *Client {
	t.Helper()
	c, err := Dial(context.Background(), addr, opts...)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func callWithin(c *Client, req protocol.Request, d time.Duration) (protocol.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return c.Call(ctx, req)
}

func TestServeDatagrams(t *testing.T) {
	testlog.Start(t)
	proc := calc.NewProcessor("udp")
	c := dialClient(t, startServer(t, proc))

	steps := []struct {
		req  protocol.Request
		want protocol.Response
	}{
		{protocol.Request{Operation: protocol.OpMultiply, Num1: 4, Num2: 2.5}, protocol.Response{Status: protocol.StatusOK, Result: 10}},
		{protocol.Request{Operation: protocol.OpDivide, Num1: 1, Num2: 0}, protocol.ErrorResponse()},
		{protocol.Request{Operation: protocol.Operation(0), Num1: 1, Num2: 1}, protocol.ErrorResponse()},
	}
	for _, step := range steps {
		got, err := callWithin(c, step.req, 2*time.Second)
		if err != nil {
			t.Fatalf("call %s: %v", step.req.Operation, err)
		}
		if got != step.want {
			t.Fatalf("%s(%v, %v) = %+v, want %+v", step.req.Operation, step.req.Num1, step.req.Num2, got, step.want)
		}
	}
	if st := proc.Stats(); st.Requests != 3 || st.OK != 1 || st.DivisionByZero != 1 || st.InvalidOperation != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestMalformedDatagramDropped(t *testing.T) {
	testlog.Start(t)
	proc := calc.NewProcessor("udp")
	addr := startServer(t, proc)

	conn, err := net.Dial("udp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write(make([]byte, 10)); err != nil {
		t.Fatalf("write short datagram: %v", err)
	}
	buf := make([]byte, 64)
	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if n, err := conn.Read(buf); !transport.IsTimeout(err) {
		t.Fatalf("expected no reply to malformed datagram, got n=%d err=%v", n, err)
	}

	if _, err := conn.Write(protocol.EncodeRequest(protocol.Request{Operation: protocol.OpAdd, Num1: 2, Num2: 3})); err != nil {
		t.Fatalf("write request: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	resp, err := protocol.DecodeResponse(buf[:n])
	if err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if resp != (protocol.Response{Status: protocol.StatusOK, Result: 5}) {
		t.Fatalf("expected {0, 5}, got %+v", resp)
	}
	if st := proc.Stats(); st.FrameErrors != 1 || st.Requests != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestLegacyLayoutDatagrams(t *testing.T) {
	testlog.Start(t)
	legacy := transport.WithLayout(protocol.LegacyLayout)
	c := dialClient(t, startServer(t, calc.NewProcessor("udp"), legacy), legacy)

	got, err := callWithin(c, protocol.Request{Operation: protocol.OpSubtract, Num1: 10, Num2: 4}, 2*time.Second)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Result != 6 {
		t.Fatalf("expected 6, got %+v", got)
	}
}

// scriptedPeer answers each datagram with the next canned reply.
func scriptedPeer(t *testing.T, replies ...[]byte) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = pc.Close() })
	go func() {
		buf := make([]byte, maxDatagram)
		for _, reply := range replies {
			_, peer, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			if reply != nil {
				_, _ = pc.WriteTo(reply, peer)
			}
		}
	}()
	return pc.LocalAddr().String()
}

func TestClientSurvivesMalformedReply(t *testing.T) {
	testlog.Start(t)
	good := protocol.EncodeResponse(protocol.Response{Status: protocol.StatusOK, Result: 42})
	c := dialClient(t, scriptedPeer(t, []byte{1, 2, 3}, good))

	_, err := callWithin(c, protocol.Request{Operation: protocol.OpAdd}, 2*time.Second)
	var fe *protocol.FrameError
	if !errors.As(err, &fe) || fe.Got != 3 || fe.Want != protocol.ResponseSize {
		t.Fatalf("expected frame error for 3-byte reply, got %v", err)
	}

	resp, err := callWithin(c, protocol.Request{Operation: protocol.OpAdd}, 2*time.Second)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if resp.Result != 42 {
		t.Fatalf("expected 42, got %+v", resp)
	}
}

func TestClientCallHonorsContext(t *testing.T) {
	testlog.Start(t)
	c := dialClient(t, scriptedPeer(t, nil))

	if _, err := callWithin(c, protocol.Request{Operation: protocol.OpAdd}, 50*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := c.Call(context.Background(), protocol.Request{}); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
}
