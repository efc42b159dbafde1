package app

import (
	"context"
	"fmt"
	"io"

	"github.com/danmuck/calcnet/internal/calc"
	"github.com/danmuck/calcnet/internal/config"
	"github.com/danmuck/calcnet/internal/console"
	"github.com/danmuck/calcnet/internal/transport"
	"github.com/danmuck/calcnet/internal/transport/tcp"
	"github.com/danmuck/calcnet/internal/transport/udp"
	"github.com/rs/zerolog/log"
)

// RunClient runs an interactive client until the user exits.
func RunClient(t config.Transport, prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	configureLogging(prog)
	ctx, stop := signalContext()
	defer stop()
	return ClientContext(ctx, t, prog, args, stdin, stdout, stderr)
}

func ClientContext(ctx context.Context, t config.Transport, prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inv, err := parseInvocation(prog, args, stderr)
	if err != nil {
		return usageFailure(stderr, config.ClientUsage(prog), err)
	}
	fallback, err := config.ApplyClientArgs(&inv.cfg, t, inv.args)
	if err != nil {
		return usageFailure(stderr, config.ClientUsage(prog), err)
	}
	if fallback {
		log.Warn().Str("arg", inv.args[1]).Int("port", inv.cfg.Client.Port(t)).Msg("invalid port number, using default port")
	}

	opts := []transport.Option{
		transport.WithName(prog),
		transport.WithLayout(inv.layout()),
		transport.WithDialTimeout(inv.cfg.Client.DialTimeout),
		transport.WithReadTimeout(inv.cfg.Client.ReadTimeout),
		transport.WithWriteTimeout(inv.cfg.Client.WriteTimeout),
	}
	addr := inv.cfg.Client.Addr(t)
	var caller console.Caller
	if t == config.UDP {
		caller, err = udp.Dial(ctx, addr, opts...)
	} else {
		fmt.Fprintf(stdout, "Attempting to connect to server at %s...\n", addr)
		caller, err = tcp.Dial(ctx, addr, opts...)
	}
	if err != nil {
		log.Error().Err(err).Str("addr", addr).Msg("connect failed")
		return ExitFailure
	}
	defer caller.Close()
	if t == config.UDP {
		fmt.Fprintf(stdout, "Sending requests to server at %s.\n", addr)
	} else {
		fmt.Fprintln(stdout, "Successfully connected to the calculator server.")
	}

	title := "Client Calculator Menu"
	if t == config.UDP {
		title = "UDP Client Calculator Menu"
	}
	if err := console.New(caller, stdin, stdout, title).Run(ctx); err != nil {
		log.Error().Err(err).Msg("session ended")
		return ExitFailure
	}
	return ExitOK
}

// RunLocal runs the standalone calculator. No network is involved.
func RunLocal(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	configureLogging(prog)
	ctx, stop := signalContext()
	defer stop()
	return LocalContext(ctx, prog, args, stdin, stdout, stderr)
}

func LocalContext(ctx context.Context, prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inv, err := parseInvocation(prog, args, stderr)
	if err != nil {
		return usageFailure(stderr, localUsage(prog), err)
	}
	if len(inv.args) > 0 {
		return usageFailure(stderr, localUsage(prog), config.ErrUsage)
	}
	if err := console.New(calc.Local{}, stdin, stdout, "Simple Calculator Menu").Run(ctx); err != nil {
		log.Error().Err(err).Msg("calculator stopped")
		return ExitFailure
	}
	return ExitOK
}

func localUsage(prog string) string {
	return fmt.Sprintf("Usage: %s", prog)
}
