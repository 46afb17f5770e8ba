package publish

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/panjf2000/ants/v2"

	"github.com/arloliu/jspull/ident"
	"github.com/arloliu/jspull/internal/logging"
	"github.com/arloliu/jspull/internal/metrics"
	"github.com/arloliu/jspull/internal/natsutil"
	"github.com/arloliu/jspull/types"
)

const (
	modeSync  = "sync"
	modeAsync = "async"
)

// Publisher publishes numbered messages to JetStream.
type Publisher struct {
	js      jetstream.JetStream
	verbose io.Writer
	logger  types.Logger
	metrics types.PublishMetrics
	msgID   bool
	pool    *ants.Pool
}

// New creates a Publisher bound to js.
//
// Parameters:
//   - js: JetStream context messages are published through
//   - opts: Optional configuration (WithVerbose, WithLogger, WithMetrics, WithMsgID, WithPool)
//
// Returns:
//   - *Publisher: Ready publisher, silent and with a no-op logger by default
//   - error: types.ErrJetStreamRequired when js is nil
func New(js jetstream.JetStream, opts ...Option) (*Publisher, error) {
	if js == nil {
		return nil, types.ErrJetStreamRequired
	}

	p := &Publisher{
		js:      js,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Publish synchronously publishes count messages to subject, with payloads
// prefix+"1" through prefix+count, in order.
//
// The first failure stops the loop and is returned; messages published
// before it stay in the stream. The verbose line is closed either way.
//
// Example:
//
//	p, _ := publish.New(js, publish.WithVerbose(os.Stdout))
//	// prints "Publish -> a1 a2 a3 <-"
//	err := p.Publish(ctx, "orders.new", "a", 3)
func (p *Publisher) Publish(ctx context.Context, subject, prefix string, count int) error {
	if err := validate(subject, count); err != nil {
		return err
	}

	p.print("Publish ->")
	for x := 1; x <= count; x++ {
		data := prefix + strconv.Itoa(x)
		p.print(" " + data)

		if _, err := p.js.Publish(ctx, subject, []byte(data), p.publishOpts()...); err != nil {
			p.metrics.RecordPublishFailure(modeSync)
			p.logger.Error("publish failed",
				"subject", subject,
				"seq", x,
				"connectivity", natsutil.IsConnectivityError(err),
				"error", err)
			p.print(" <-\n")

			return fmt.Errorf("failed to publish message %d of %d to %q: %w", x, count, subject, err)
		}
		p.metrics.RecordPublish(modeSync)
	}
	p.print(" <-\n")

	return nil
}

// PublishDontWait starts one background task that publishes count messages
// to subject without waiting for acknowledgements, with payloads
// prefix+"-1" through prefix+"-"+count.
//
// It returns immediately. Argument errors are returned synchronously; any
// failure inside the task goes to the logger's Fatal method, which stops the
// process with the default slog logger.
func (p *Publisher) PublishDontWait(subject, prefix string, count int) error {
	if err := validate(subject, count); err != nil {
		return err
	}

	task := func() {
		p.publishAsync(subject, prefix, count)
	}

	if p.pool == nil {
		go task()
		return nil
	}

	// Submit blocks while every pool worker is busy, so it must not run on
	// the caller's goroutine.
	go func() {
		if err := p.pool.Submit(task); err != nil {
			p.metrics.RecordPublishFailure(modeAsync)
			p.logger.Fatal("background publish could not be scheduled", "subject", subject, "error", err)
		}
	}()

	return nil
}

func (p *Publisher) publishAsync(subject, prefix string, count int) {
	for x := 1; x <= count; x++ {
		data := prefix + "-" + strconv.Itoa(x)

		if _, err := p.js.PublishAsync(subject, []byte(data), p.publishOpts()...); err != nil {
			p.metrics.RecordPublishFailure(modeAsync)
			p.logger.Fatal("background publish failed",
				"subject", subject,
				"seq", x,
				"connectivity", natsutil.IsConnectivityError(err),
				"error", err)

			return
		}
		p.metrics.RecordPublish(modeAsync)
	}
}

func (p *Publisher) publishOpts() []jetstream.PublishOpt {
	if !p.msgID {
		return nil
	}

	return []jetstream.PublishOpt{jetstream.WithMsgID(ident.NewMsgID())}
}

func (p *Publisher) print(s string) {
	if p.verbose != nil {
		_, _ = io.WriteString(p.verbose, s)
	}
}

func validate(subject string, count int) error {
	if subject == "" {
		return types.ErrEmptySubject
	}
	if count <= 0 {
		return fmt.Errorf("count %d: %w", count, types.ErrInvalidCount)
	}

	return nil
}

// Publish synchronously publishes count messages; see Publisher.Publish.
// A nil verbose writer disables output.
func Publish(ctx context.Context, js jetstream.JetStream, subject, prefix string, count int, verbose io.Writer) error {
	p, err := New(js, WithVerbose(verbose))
	if err != nil {
		return err
	}

	return p.Publish(ctx, subject, prefix, count)
}

// PublishDontWait publishes count messages in the background; see
// Publisher.PublishDontWait. A nil logger falls back to the slog default
// logger, so a failure terminates the process.
func PublishDontWait(js jetstream.JetStream, subject, prefix string, count int, logger types.Logger) error {
	if logger == nil {
		logger = logging.NewSlogDefault()
	}

	p, err := New(js, WithLogger(logger))
	if err != nil {
		return err
	}

	return p.PublishDontWait(subject, prefix, count)
}
