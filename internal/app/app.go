// Package app wires configuration, logging and transports into the
// calculator binaries. Each Run function returns the process exit code.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/calcnet/internal/config"
	"github.com/danmuck/calcnet/internal/logging"
	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/rs/zerolog/log"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// invocation is the parsed command line of any calculator binary.
type invocation struct {
	prog string
	cfg  config.Config
	args []string
}

func parseInvocation(prog string, args []string, stderr io.Writer) (invocation, error) {
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return invocation{}, err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return invocation{}, err
	}
	return invocation{prog: prog, cfg: cfg, args: fs.Args()}, nil
}

func (inv invocation) layout() protocol.Layout {
	// Load already validated the name.
	l, _ := inv.cfg.Layout()
	return l
}

// usageFailure prints usage for ErrUsage and logs anything else.
func usageFailure(stderr io.Writer, usage string, err error) int {
	if errors.Is(err, config.ErrUsage) {
		fmt.Fprintln(stderr, usage)
		return ExitFailure
	}
	if errors.Is(err, flag.ErrHelp) {
		return ExitFailure
	}
	log.Error().Err(err).Msg("startup failed")
	return ExitFailure
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func configureLogging(prog string) {
	logging.ConfigureRuntime(prog)
}
