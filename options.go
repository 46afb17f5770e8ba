package jspull

import (
	"io"

	"github.com/panjf2000/ants/v2"
)

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	logger  Logger
	metrics MetricsCollector
	output  io.Writer
	pool    *ants.Pool
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for Run
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	res, err := jspull.Run(ctx, nc, cfg, jspull.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector shared by every step of the run.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for Run
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *runOptions) {
		o.metrics = metrics
	}
}

// WithOutput sets where verbose output goes when Config.Verbose is set.
// Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *runOptions) {
		o.output = w
	}
}

// WithPool runs the background publisher on pool when Config.DontWait is set.
func WithPool(pool *ants.Pool) Option {
	return func(o *runOptions) {
		o.pool = pool
	}
}
