// Package calc owns request handling for the calculator protocol.
//
// Handle is the single point where domain errors are signaled: an unknown
// operation code or a zero divisor yields a status -1 response. The arithmetic
// package stays total and its divide sentinel never reaches the wire.
package calc
