package calc

import (
	"context"

	"github.com/danmuck/calcnet/internal/protocol"
)

// Local answers requests in-process. It backs the standalone calculator.
type Local struct{}

func (Local) Call(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Response{}, err
	}
	return Handle(req), nil
}

func (Local) Stream() bool {
	return false
}

func (Local) Close() error {
	return nil
}
