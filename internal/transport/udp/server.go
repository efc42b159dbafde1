// Package udp carries calculator records as single datagrams. Each datagram
// is one request; nothing is kept between datagrams.
package udp

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/danmuck/calcnet/internal/transport"
	"github.com/rs/zerolog/log"
)

var ErrNotListening = errors.New("udp: server is not listening")

const maxDatagram = 64 * 1024

type Server struct {
	handler transport.Handler
	opts    transport.Options

	mu   sync.Mutex
	conn *net.UDPConn
}

func NewServer(handler transport.Handler, opts ...transport.Option) *Server {
	o := transport.Apply(opts...)
	if o.Name == "" {
		o.Name = "udp"
	}
	return &Server{handler: handler, opts: o}
}

func (s *Server) Listen(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return err
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		_ = pc.Close()
		return errors.New("udp: unexpected packet conn type")
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	log.Info().Str("server", s.opts.Name).Str("addr", conn.LocalAddr().String()).Str("layout", s.opts.Layout.Name()).Msg("listening")
	return nil
}

func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Serve handles one datagram at a time until ctx is cancelled or the socket
// is closed.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotListening
	}

	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()

	layout := s.opts.Layout
	buf := make([]byte, maxDatagram)
	for {
		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Str("server", s.opts.Name).Err(err).Msg("receive failed")
			time.Sleep(10 * time.Millisecond)
			continue
		}

		req, err := layout.DecodeRequest(buf[:n])
		if err != nil {
			transport.NotifyFrameError(s.handler)
			log.Warn().Str("server", s.opts.Name).Str("remote", peer.String()).Int("got", n).Int("want", layout.RequestSize()).Msg("dropping malformed datagram")
			continue
		}

		resp := s.handler.Handle(req)

		if s.opts.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(transport.Deadline(s.opts.WriteTimeout))
		}
		if _, err := conn.WriteToUDP(layout.EncodeResponse(resp), peer); err != nil {
			log.Warn().Str("server", s.opts.Name).Str("remote", peer.String()).Err(err).Msg("send response failed")
			continue
		}
		log.Debug().
			Str("server", s.opts.Name).
			Str("remote", peer.String()).
			Stringer("operation", req.Operation).
			Int32("status", int32(resp.Status)).
			Float64("result", resp.Result).
			Msg("request served")
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
