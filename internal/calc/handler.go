package calc

import (
	"github.com/danmuck/calcnet/internal/arith"
	"github.com/danmuck/calcnet/internal/protocol"
)

// Outcome labels one handled exchange.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeDivisionByZero   Outcome = "division_by_zero"
	OutcomeInvalidOperation Outcome = "invalid_operation"
	OutcomeError            Outcome = "error"
)

// Handle maps one request to its response.
func Handle(req protocol.Request) protocol.Response {
	switch req.Operation {
	case protocol.OpAdd:
		return ok(arith.Add(req.Num1, req.Num2))
	case protocol.OpSubtract:
		return ok(arith.Subtract(req.Num1, req.Num2))
	case protocol.OpMultiply:
		return ok(arith.Multiply(req.Num1, req.Num2))
	case protocol.OpDivide:
		// arith.Divide's zero sentinel must not reach the wire as a result.
		if req.Num2 == 0 {
			return protocol.ErrorResponse()
		}
		return ok(arith.Divide(req.Num1, req.Num2))
	default:
		return protocol.ErrorResponse()
	}
}

// Classify explains a response in terms of the request that produced it.
func Classify(req protocol.Request, resp protocol.Response) Outcome {
	if resp.OK() {
		return OutcomeOK
	}
	if !req.Operation.Valid() {
		return OutcomeInvalidOperation
	}
	if req.Operation == protocol.OpDivide && req.Num2 == 0 {
		return OutcomeDivisionByZero
	}
	return OutcomeError
}

func ok(result float64) protocol.Response {
	return protocol.Response{Status: protocol.StatusOK, Result: result}
}
