package calc

import (
	"sync/atomic"
	"time"

	"github.com/danmuck/calcnet/internal/observability"
	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Stats is a point-in-time snapshot of a Processor's counters.
type Stats struct {
	Transport        string `json:"transport"`
	Requests         uint64 `json:"requests"`
	OK               uint64 `json:"ok"`
	DivisionByZero   uint64 `json:"division_by_zero"`
	InvalidOperation uint64 `json:"invalid_operation"`
	FrameErrors      uint64 `json:"frame_errors"`
	Sessions         uint64 `json:"sessions"`
}

// Processor is the server-side handler: Handle plus counters, metrics and logs.
// Counters are atomic so an admin surface may read them while a server runs.
type Processor struct {
	transport string

	requests         atomic.Uint64
	ok               atomic.Uint64
	divisionByZero   atomic.Uint64
	invalidOperation atomic.Uint64
	frameErrors      atomic.Uint64
	sessions         atomic.Uint64
}

func NewProcessor(transport string) *Processor {
	observability.RegisterMetrics()
	return &Processor{transport: transport}
}

func (p *Processor) Transport() string {
	return p.transport
}

// Handle implements transport.Handler.
func (p *Processor) Handle(req protocol.Request) protocol.Response {
	start := time.Now()
	resp := Handle(req)
	outcome := Classify(req, resp)

	p.requests.Add(1)
	switch outcome {
	case OutcomeOK:
		p.ok.Add(1)
	case OutcomeDivisionByZero:
		p.divisionByZero.Add(1)
		log.Warn().Str("transport", p.transport).Float64("num1", req.Num1).Msg("division by zero requested")
	case OutcomeInvalidOperation:
		p.invalidOperation.Add(1)
		log.Warn().Str("transport", p.transport).Int32("operation", int32(req.Operation)).Msg("invalid operation received")
	}
	observability.RecordRequest(p.transport, operationLabel(req.Operation), string(outcome), time.Since(start))
	return resp
}

// FrameError records one wrong-size record seen by the transport.
func (p *Processor) FrameError() {
	p.frameErrors.Add(1)
	observability.RecordFrameError(p.transport, "request")
}

// SessionStarted records one accepted stream session.
func (p *Processor) SessionStarted() {
	p.sessions.Add(1)
	observability.RecordSession(p.transport)
}

func (p *Processor) Stats() Stats {
	return Stats{
		Transport:        p.transport,
		Requests:         p.requests.Load(),
		OK:               p.ok.Load(),
		DivisionByZero:   p.divisionByZero.Load(),
		InvalidOperation: p.invalidOperation.Load(),
		FrameErrors:      p.frameErrors.Load(),
		Sessions:         p.sessions.Load(),
	}
}

// operationLabel bounds metric label cardinality for garbage operation codes.
func operationLabel(op protocol.Operation) string {
	if op.Valid() {
		return op.String()
	}
	return "invalid"
}
