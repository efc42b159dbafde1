package app

import (
	"context"
	"io"
	"net"

	"github.com/danmuck/calcnet/internal/admin"
	"github.com/danmuck/calcnet/internal/calc"
	"github.com/danmuck/calcnet/internal/config"
	"github.com/danmuck/calcnet/internal/transport"
	"github.com/danmuck/calcnet/internal/transport/tcp"
	"github.com/danmuck/calcnet/internal/transport/udp"
	"github.com/rs/zerolog/log"
)

// calcServer is the part of tcp.Server and udp.Server the binaries drive.
type calcServer interface {
	Listen(ctx context.Context, addr string) error
	Addr() net.Addr
	Serve(ctx context.Context) error
	Close() error
}

// RunServer runs a calculator server until SIGINT or SIGTERM.
func RunServer(t config.Transport, prog string, args []string, stderr io.Writer) int {
	configureLogging(prog)
	ctx, stop := signalContext()
	defer stop()
	return ServeContext(ctx, t, prog, args, stderr, nil)
}

// ServeContext runs a calculator server until ctx is done. ready, when set,
// is called with the bound address before the first accept.
func ServeContext(ctx context.Context, t config.Transport, prog string, args []string, stderr io.Writer, ready func(net.Addr)) int {
	inv, err := parseInvocation(prog, args, stderr)
	if err != nil {
		return usageFailure(stderr, config.ServerUsage(prog), err)
	}
	fallback, err := config.ApplyServerArgs(&inv.cfg, t, inv.args)
	if err != nil {
		return usageFailure(stderr, config.ServerUsage(prog), err)
	}
	if fallback {
		log.Warn().Str("arg", inv.args[0]).Int("port", inv.cfg.Server.Port(t)).Msg("invalid port number, using default port")
	}

	proc := calc.NewProcessor(string(t))
	opts := []transport.Option{
		transport.WithName(prog),
		transport.WithLayout(inv.layout()),
		transport.WithReadTimeout(inv.cfg.Server.ReadTimeout),
		transport.WithWriteTimeout(inv.cfg.Server.WriteTimeout),
	}
	var srv calcServer
	if t == config.UDP {
		srv = udp.NewServer(proc, opts...)
	} else {
		srv = tcp.NewServer(proc, opts...)
	}

	addr := inv.cfg.Server.Addr(t)
	if err := srv.Listen(ctx, addr); err != nil {
		log.Error().Err(err).Str("addr", addr).Msg("listen failed")
		return ExitFailure
	}
	defer srv.Close()

	if adminAddr := inv.cfg.Server.AdminAddr; adminAddr != "" {
		if err := startAdmin(ctx, prog, adminAddr, proc, inv.cfg.Server.CorsOrigins); err != nil {
			log.Error().Err(err).Str("addr", adminAddr).Msg("admin listen failed")
			return ExitFailure
		}
	}

	if ready != nil {
		ready(srv.Addr())
	}
	if err := srv.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return ExitFailure
	}
	st := proc.Stats()
	log.Info().
		Uint64("requests", st.Requests).
		Uint64("frame_errors", st.FrameErrors).
		Uint64("sessions", st.Sessions).
		Msg("server shut down")
	return ExitOK
}

func startAdmin(ctx context.Context, prog, addr string, proc *calc.Processor, corsOrigins []string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	adm := admin.New(prog, proc, corsOrigins)
	adm.SetReady(true)
	go func() {
		if err := adm.Serve(ctx, ln); err != nil {
			log.Error().Err(err).Msg("admin server stopped")
		}
	}()
	return nil
}
