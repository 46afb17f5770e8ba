package pull

import (
	"io"
	"time"

	"github.com/arloliu/jspull/types"
)

// DefaultNextMessageTimeout is how long a Reader waits for each message.
const DefaultNextMessageTimeout = time.Second

// Option configures a Reader.
type Option func(*Reader)

// WithVerbose echoes every message read to w.
//
// Output format: "Read/Ack -> a1 !408! ?x? <- \n", or
// "No messages available.\n" when nothing arrived. A nil writer disables
// output.
func WithVerbose(w io.Writer) Option {
	return func(r *Reader) {
		r.verbose = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(mc types.ReadMetrics) Option {
	return func(r *Reader) {
		if mc != nil {
			r.metrics = mc
		}
	}
}

// WithTimeout sets the per-message wait used by ReadMessagesAck.
// Non-positive values keep DefaultNextMessageTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Reader) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}
