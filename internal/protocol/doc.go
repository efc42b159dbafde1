// Package protocol owns the calculator wire contract.
//
// Ownership boundary:
// - request/response records and operation codes
// - fixed-size record layouts (network and legacy)
// - exact-size decode and frame-size validation
//
// A record is exchanged verbatim with no length prefix or delimiter. Receivers
// compare the byte count against the layout size before interpreting any field.
package protocol
