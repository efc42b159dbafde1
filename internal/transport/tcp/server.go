// Package tcp carries calculator records over a TCP stream. The server is
// iterative: one client is served to completion before the next is accepted.
package tcp

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/danmuck/calcnet/internal/transport"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotListening = errors.New("tcp: server is not listening")
	ErrClientClosed = errors.New("tcp: client closed")
)

const acceptRetryDelay = 10 * time.Millisecond

type Server struct {
	handler transport.Handler
	opts    transport.Options

	mu     sync.Mutex
	ln     net.Listener
	active net.Conn
}

func NewServer(handler transport.Handler, opts ...transport.Option) *Server {
	o := transport.Apply(opts...)
	if o.Name == "" {
		o.Name = "tcp"
	}
	return &Server{handler: handler, opts: o}
}

// Listen binds addr. An empty host binds all interfaces.
func (s *Server) Listen(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	log.Info().Str("server", s.opts.Name).Str("addr", ln.Addr().String()).Str("layout", s.opts.Layout.Name()).Msg("listening")
	return nil
}

func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts and serves clients one at a time until ctx is cancelled or
// the listener is closed. Both cases return nil.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return ErrNotListening
	}

	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Str("server", s.opts.Name).Err(err).Msg("accept failed")
			time.Sleep(acceptRetryDelay)
			continue
		}
		s.serveConn(ctx, conn)
	}
}

// Close stops the listener and drops the active session, if any.
func (s *Server) Close() error {
	s.mu.Lock()
	ln, active := s.ln, s.active
	s.mu.Unlock()
	if active != nil {
		_ = active.Close()
	}
	if ln == nil {
		return nil
	}
	err := ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	s.mu.Lock()
	s.active = conn
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.active = nil
		s.mu.Unlock()
		_ = conn.Close()
	}()
	if ctx.Err() != nil {
		return
	}

	remote := conn.RemoteAddr().String()
	transport.NotifySession(s.handler)
	log.Info().Str("server", s.opts.Name).Str("remote", remote).Msg("client connected")

	layout := s.opts.Layout
	for {
		if s.opts.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(transport.Deadline(s.opts.ReadTimeout))
		}
		req, err := layout.ReadRequest(conn)
		if err != nil {
			s.endSession(conn, remote, err)
			return
		}

		resp := s.handler.Handle(req)

		if s.opts.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(transport.Deadline(s.opts.WriteTimeout))
		}
		if err := layout.WriteResponse(conn, resp); err != nil {
			log.Warn().Str("server", s.opts.Name).Str("remote", remote).Err(err).Msg("write response failed")
			return
		}
		log.Debug().
			Str("server", s.opts.Name).
			Str("remote", remote).
			Stringer("operation", req.Operation).
			Int32("status", int32(resp.Status)).
			Float64("result", resp.Result).
			Msg("request served")
	}
}

func (s *Server) endSession(conn net.Conn, remote string, err error) {
	var fe *protocol.FrameError
	switch {
	case errors.As(err, &fe):
		transport.NotifyFrameError(s.handler)
		log.Warn().Str("server", s.opts.Name).Str("remote", remote).Int("got", fe.Got).Int("want", fe.Want).Msg("truncated request, closing connection")
		// Best effort; the stream is out of sync either way.
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = s.opts.Layout.WriteResponse(conn, protocol.ErrorResponse())
	case errors.Is(err, io.EOF):
		log.Info().Str("server", s.opts.Name).Str("remote", remote).Msg("client disconnected")
	case transport.IsTimeout(err):
		log.Warn().Str("server", s.opts.Name).Str("remote", remote).Msg("read timeout, closing connection")
	case errors.Is(err, net.ErrClosed):
		log.Info().Str("server", s.opts.Name).Str("remote", remote).Msg("session closed")
	default:
		log.Warn().Str("server", s.opts.Name).Str("remote", remote).Err(err).Msg("read request failed")
	}
}
