// Package arith holds the four arithmetic operations carried by the protocol.
//
// Every function is total: none of them fail or signal errors. Error
// signaling for bad operands belongs to the request handler in package calc.
package arith

// Add returns a + b.
func Add(a, b float64) float64 {
	return a + b
}

// Subtract returns a - b.
func Subtract(a, b float64) float64 {
	return a - b
}

// Multiply returns a * b.
func Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a / b, or the sentinel 0 when b is zero.
// The sentinel is not an error code; callers that need to report division by
// zero must check b before calling.
func Divide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
