package provision

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/jspull/internal/logging"
	"github.com/arloliu/jspull/internal/metrics"
	"github.com/arloliu/jspull/types"
)

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(p *Provisioner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(mc types.ProvisionMetrics) Option {
	return func(p *Provisioner) {
		if mc != nil {
			p.metrics = mc
		}
	}
}

// Provisioner creates memory-backed streams and tracks the ones it created.
//
// It is safe for concurrent use.
type Provisioner struct {
	js      jetstream.JetStream
	logger  types.Logger
	metrics types.ProvisionMetrics

	// stream name -> subject it was created for
	created *xsync.Map[string, string]
}

// New creates a Provisioner bound to js.
//
// Returns:
//   - *Provisioner: Provisioner with a no-op logger and metrics unless overridden
//   - error: types.ErrJetStreamRequired when js is nil
func New(js jetstream.JetStream, opts ...Option) (*Provisioner, error) {
	if js == nil {
		return nil, types.ErrJetStreamRequired
	}

	p := &Provisioner{
		js:      js,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		created: xsync.NewMap[string, string](),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// CreateStream creates a memory-backed stream named name that captures
// subject. It fails with types.ErrStreamExists when a stream with that name
// is already present, whatever subjects it captures.
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	if _, err := provision.CreateStream(ctx, js, "ORDERS", "orders.new"); err != nil {
//	    log.Fatal(err) // errors.Is(err, types.ErrStreamExists) when not reset
//	}
func CreateStream(ctx context.Context, js jetstream.JetStream, name, subject string) (jetstream.Stream, error) {
	p, err := New(js)
	if err != nil {
		return nil, err
	}

	return p.CreateStream(ctx, name, subject)
}

// CreateStream creates a memory-backed stream; see the package-level CreateStream.
func (p *Provisioner) CreateStream(ctx context.Context, name, subject string) (jetstream.Stream, error) {
	if err := validate(name, subject); err != nil {
		return nil, err
	}

	_, err := p.js.Stream(ctx, name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("stream %q: %w; change the stream name or restart the server if it is a memory stream",
			name, types.ErrStreamExists)
	case !errors.Is(err, jetstream.ErrStreamNotFound):
		return nil, fmt.Errorf("failed to look up stream %q: %w", name, err)
	}

	stream, err := p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  jetstream.MemoryStorage,
	})
	if err != nil {
		// Lost a race with another creator between lookup and create.
		if errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
			return nil, fmt.Errorf("stream %q: %w", name, types.ErrStreamExists)
		}

		return nil, fmt.Errorf("failed to create stream %q: %w", name, err)
	}

	p.created.Store(name, subject)
	p.metrics.RecordStreamCreated()
	p.logger.Info("stream created", "stream", name, "subject", subject, "storage", "memory")

	return stream, nil
}

// EnsureStream returns the stream named name, creating it like CreateStream
// when it is absent. An existing stream is accepted only if it already
// captures subject; otherwise types.ErrSubjectMismatch is returned.
//
// Streams found rather than created are not tracked for Cleanup.
func (p *Provisioner) EnsureStream(ctx context.Context, name, subject string) (jetstream.Stream, error) {
	if err := validate(name, subject); err != nil {
		return nil, err
	}

	stream, err := p.js.Stream(ctx, name)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		stream, err = p.CreateStream(ctx, name, subject)
		if !errors.Is(err, types.ErrStreamExists) {
			return stream, err
		}
		// created concurrently, fall back to the lookup path
		stream, err = p.js.Stream(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up stream %q: %w", name, err)
	}

	info := stream.CachedInfo()
	if info == nil || !slices.Contains(info.Config.Subjects, subject) {
		return nil, fmt.Errorf("stream %q, subject %q: %w", name, subject, types.ErrSubjectMismatch)
	}

	p.logger.Debug("stream already present", "stream", name, "subject", subject)

	return stream, nil
}

// Created returns the names of the streams this provisioner created and has
// not yet cleaned up, sorted.
func (p *Provisioner) Created() []string {
	names := make([]string, 0, p.created.Size())
	p.created.Range(func(name, _ string) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)

	return names
}

// Cleanup deletes every stream this provisioner created.
//
// Streams that are already gone count as deleted. All deletions are
// attempted; the returned error joins every failure.
func (p *Provisioner) Cleanup(ctx context.Context) error {
	var errs []error
	for _, name := range p.Created() {
		err := p.js.DeleteStream(ctx, name)
		if err != nil && !errors.Is(err, jetstream.ErrStreamNotFound) {
			p.logger.Warn("failed to delete stream", "stream", name, "error", err)
			errs = append(errs, fmt.Errorf("failed to delete stream %q: %w", name, err))

			continue
		}
		p.created.Delete(name)
		p.logger.Debug("stream deleted", "stream", name)
	}

	return errors.Join(errs...)
}

func validate(name, subject string) error {
	if name == "" {
		return types.ErrEmptyStreamName
	}
	if subject == "" {
		return types.ErrEmptySubject
	}

	return nil
}
