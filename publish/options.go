package publish

import (
	"io"

	"github.com/panjf2000/ants/v2"

	"github.com/arloliu/jspull/types"
)

// Option configures a Publisher.
type Option func(*Publisher)

// WithVerbose echoes every published payload to w.
//
// Output format: "Publish -> a1 a2 a3 <-\n". A nil writer disables output.
func WithVerbose(w io.Writer) Option {
	return func(p *Publisher) {
		p.verbose = w
	}
}

// WithLogger sets the logger. Background publish failures are reported
// through its Fatal method.
func WithLogger(logger types.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(mc types.PublishMetrics) Option {
	return func(p *Publisher) {
		if mc != nil {
			p.metrics = mc
		}
	}
}

// WithMsgID attaches a random Nats-Msg-Id header to every message so the
// server de-duplicates retransmissions within the stream's duplicate window.
func WithMsgID(enabled bool) Option {
	return func(p *Publisher) {
		p.msgID = enabled
	}
}

// WithPool runs background publishing on pool instead of a new goroutine.
//
// Submission happens on its own goroutine, so a saturated blocking pool
// delays the publish but never the caller. The pool is not released by the
// Publisher.
func WithPool(pool *ants.Pool) Option {
	return func(p *Publisher) {
		p.pool = pool
	}
}
