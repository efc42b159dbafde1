// Package console is the interactive front end shared by the clients and the
// standalone calculator. It reads a menu choice and two operands per round,
// sends them through a Caller and prints the outcome.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Caller performs one request/response exchange.
//
// Stream reports whether a malformed response leaves the caller out of sync,
// in which case the session ends instead of continuing.
type Caller interface {
	Call(ctx context.Context, req protocol.Request) (protocol.Response, error)
	Stream() bool
	Close() error
}

type Console struct {
	caller Caller
	in     *tokenReader
	out    io.Writer
	title  string
}

func New(caller Caller, in io.Reader, out io.Writer, title string) *Console {
	if title == "" {
		title = "Calculator Menu"
	}
	return &Console{caller: caller, in: newTokenReader(in), out: out, title: title}
}

// Run loops until the user exits, input ends, ctx is cancelled or the caller
// fails. Only a caller failure is returned as an error.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		printMenu(c.out, c.title)

		choice, ok, err := c.readChoice()
		if err != nil {
			return c.inputEnded(err)
		}
		if !ok {
			continue
		}
		if choice == 0 {
			fmt.Fprintln(c.out, "Exiting. Goodbye!")
			return nil
		}
		op := protocol.Operation(choice)
		if !op.Valid() {
			fmt.Fprintln(c.out, "Invalid choice. Please enter a number between 0 and 4.")
			fmt.Fprintln(c.out)
			continue
		}

		num1, ok, err := c.readNumber("Enter first number: ")
		if err != nil {
			return c.inputEnded(err)
		}
		if !ok {
			continue
		}
		num2, ok, err := c.readNumber("Enter second number: ")
		if err != nil {
			return c.inputEnded(err)
		}
		if !ok {
			continue
		}

		done, err := c.exchange(ctx, protocol.Request{Operation: op, Num1: num1, Num2: num2})
		if done || err != nil {
			return err
		}
		fmt.Fprintln(c.out)
	}
}

func (c *Console) exchange(ctx context.Context, req protocol.Request) (bool, error) {
	resp, err := c.caller.Call(ctx, req)
	if err == nil {
		fmt.Fprintln(c.out, Render(req, resp))
		return false, nil
	}

	switch {
	case errors.Is(err, protocol.ErrFrameSize):
		log.Warn().Err(err).Msg("malformed response")
		fmt.Fprintln(c.out, msgMalformed)
		return c.caller.Stream(), nil
	case errors.Is(err, io.EOF):
		fmt.Fprintln(c.out, msgServerClosed)
		return true, nil
	case ctx.Err() != nil:
		return true, nil
	default:
		return true, fmt.Errorf("console: call %s: %w", req.Operation, err)
	}
}

// readChoice returns ok=false after reporting bad input.
func (c *Console) readChoice() (int, bool, error) {
	fmt.Fprint(c.out, "Enter your choice: ")
	tok, err := c.in.next()
	if err != nil {
		return 0, false, err
	}
	choice, err := strconv.Atoi(tok)
	if err != nil {
		c.in.discardLine()
		fmt.Fprintln(c.out, "Invalid input. Please enter a number.")
		return 0, false, nil
	}
	return choice, true, nil
}

func (c *Console) readNumber(prompt string) (float64, bool, error) {
	fmt.Fprint(c.out, prompt)
	tok, err := c.in.next()
	if err != nil {
		return 0, false, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		c.in.discardLine()
		fmt.Fprintln(c.out, "Invalid input. Please enter a valid number.")
		return 0, false, nil
	}
	return v, true, nil
}

func (c *Console) inputEnded(err error) error {
	fmt.Fprintln(c.out)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out, "Input closed. Goodbye!")
		return nil
	}
	return fmt.Errorf("console: read input: %w", err)
}
