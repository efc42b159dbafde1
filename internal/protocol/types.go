package protocol

import "fmt"

// Operation is the arithmetic operation code carried in a Request.
// Zero is never transmitted; the interactive menu reserves it for exit.
type Operation int32

const (
	OpAdd      Operation = 1
	OpSubtract Operation = 2
	OpMultiply Operation = 3
	OpDivide   Operation = 4
)

// Operations lists every valid operation in wire-code order.
var Operations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide}

func (o Operation) Valid() bool {
	return o >= OpAdd && o <= OpDivide
}

func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return fmt.Sprintf("op(%d)", int32(o))
	}
}

// Status is the Response outcome code.
type Status int32

const (
	StatusOK    Status = 0
	StatusError Status = -1
)

// Request is one calculation request.
type Request struct {
	Operation Operation
	Num1      float64
	Num2      float64
}

// Response is one calculation result. Result is 0 whenever Status is not StatusOK.
type Response struct {
	Status Status
	Result float64
}

func (r Response) OK() bool {
	return r.Status == StatusOK
}

// ErrorResponse is the only response shape used to signal failure.
func ErrorResponse() Response {
	return Response{Status: StatusError, Result: 0}
}
