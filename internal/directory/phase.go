package directory

import (
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Phase is the lifecycle of a view: Idle -> Loading -> (Ready | Failed).
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgListFailed   = "Failed to load companies. Please try again later."
	MsgDetailFailed = "Failed to load company details. Please try again later."
	MsgNotFound     = "Company not found"
)

// Option configures a view-model.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// traceLogger tags every line of one load with a fresh trace id.
func traceLogger(l zerolog.Logger) zerolog.Logger {
	return l.With().Str("trace_id", ulid.Make().String()).Logger()
}
