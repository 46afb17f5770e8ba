package jspull

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/jspull/internal/logging"
	"github.com/arloliu/jspull/internal/metrics"
	"github.com/arloliu/jspull/message"
	"github.com/arloliu/jspull/provision"
	"github.com/arloliu/jspull/publish"
	"github.com/arloliu/jspull/pull"
	"github.com/arloliu/jspull/report"
)

// Result is the outcome of one Run.
type Result struct {
	// Stream and Subject are the resolved names, generated when the config
	// left them empty.
	Stream  string
	Subject string

	// Consumer is the durable pull consumer name.
	Consumer string

	// Messages holds everything the reader received, status messages included.
	Messages []*nats.Msg

	// Tally counts Messages by origin.
	Tally Tally
}

// Run executes the pull example end to end on nc:
//
//  1. create the stream (fails with ErrStreamExists if present)
//  2. publish Count messages, synchronously or in the background (DontWait)
//  3. bind a durable pull consumer and send one pull request for BatchSize
//  4. read and ack until NextMessageTimeout passes without a message
//  5. report the batch and count it by origin
//
// When cfg.Cleanup is set the stream is deleted before Run returns, also on
// failure.
//
// Parameters:
//   - ctx: Context for cancellation
//   - nc: Connected NATS connection with JetStream enabled on the server
//   - cfg: Run configuration; defaults are applied to a copy
//   - opts: Optional logger, metrics, output writer and worker pool
//
// Returns:
//   - *Result: Messages read and their tally
//   - error: Configuration, provisioning, publish, subscribe or read failure
//
// Example:
//
//	cfg := jspull.DefaultConfig()
//	cfg.Count, cfg.BatchSize = 3, 5
//	cfg.NextMessageTimeout = 3 * time.Second // outlive PullExpires to see the 408
//	res, err := jspull.Run(ctx, nc, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Tally.JetStream, res.Tally.Timeouts) // 3 1
func Run(ctx context.Context, nc *nats.Conn, cfg Config, opts ...Option) (*Result, error) {
	if nc == nil {
		return nil, ErrNATSConnectionRequired
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := runOptions{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.metrics == nil {
		o.metrics = metrics.NewNop()
	}
	cfg.ValidateWithWarnings(o.logger)

	var verbose io.Writer
	if cfg.Verbose {
		verbose = o.output
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	prov, err := provision.New(js, provision.WithLogger(o.logger), provision.WithMetrics(o.metrics))
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	_, err = prov.CreateStream(opCtx, cfg.Stream, cfg.Subject)
	cancel()
	if err != nil {
		return nil, err
	}

	if cfg.Cleanup {
		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.OperationTimeout)
			defer cancel()

			if err := prov.Cleanup(cleanupCtx); err != nil {
				o.logger.Warn("failed to clean up stream", "stream", cfg.Stream, "error", err)
			}
		}()
	}

	if err := runPublish(ctx, js, &cfg, &o, verbose); err != nil {
		return nil, err
	}

	opCtx, cancel = context.WithTimeout(ctx, cfg.OperationTimeout)
	sub, err := pull.Subscribe(opCtx, js, cfg.Stream, pull.ConsumerConfig{
		Durable:       cfg.Durable,
		FilterSubject: cfg.Subject,
	})
	cancel()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			o.logger.Debug("failed to unsubscribe", "consumer", sub.ConsumerName(), "error", err)
		}
	}()

	if err := sub.Pull(cfg.BatchSize, cfg.PullExpires); err != nil {
		return nil, err
	}

	reader := pull.NewReader(
		pull.WithVerbose(verbose),
		pull.WithLogger(o.logger),
		pull.WithMetrics(o.metrics),
		pull.WithTimeout(cfg.NextMessageTimeout),
	)
	msgs, err := reader.ReadMessagesAck(sub)
	if err != nil {
		return nil, err
	}

	if verbose != nil {
		report.Report(verbose, msgs)
	}

	res := &Result{
		Stream:   cfg.Stream,
		Subject:  cfg.Subject,
		Consumer: sub.ConsumerName(),
		Messages: msgs,
		Tally:    message.Count(msgs),
	}

	o.logger.Info("run complete",
		"stream", res.Stream,
		"consumer", res.Consumer,
		"jetstream", res.Tally.JetStream,
		"status", res.Tally.Status,
		"timeouts", res.Tally.Timeouts,
		"plain", res.Tally.Plain)

	return res, nil
}

func runPublish(ctx context.Context, js jetstream.JetStream, cfg *Config, o *runOptions, verbose io.Writer) error {
	pubOpts := []publish.Option{
		publish.WithLogger(o.logger),
		publish.WithMetrics(o.metrics),
		publish.WithMsgID(cfg.MsgID),
	}
	if o.pool != nil {
		pubOpts = append(pubOpts, publish.WithPool(o.pool))
	}
	if !cfg.DontWait {
		pubOpts = append(pubOpts, publish.WithVerbose(verbose))
	}

	p, err := publish.New(js, pubOpts...)
	if err != nil {
		return err
	}

	if cfg.DontWait {
		return p.PublishDontWait(cfg.Subject, cfg.Prefix, cfg.Count)
	}

	opCtx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	defer cancel()

	return p.Publish(opCtx, cfg.Subject, cfg.Prefix, cfg.Count)
}
