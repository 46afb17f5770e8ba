package types

import "errors"

// Sentinel errors for the jspull helpers.
//
// Callers match them with errors.Is; components wrap broker errors with
// fmt.Errorf("...: %w", err) and never return raw strings.

// Provisioning errors.
var (
	// ErrStreamExists is returned by CreateStream when a stream with the requested
	// name is already present. The helpers expect a known, empty stream, so an
	// existing one means the environment was not reset between runs.
	ErrStreamExists = errors.New("stream already exists")

	// ErrSubjectMismatch is returned by EnsureStream when the existing stream does
	// not capture the requested subject.
	ErrSubjectMismatch = errors.New("stream does not capture subject")

	// ErrEmptyStreamName is returned when a stream name is empty.
	ErrEmptyStreamName = errors.New("empty stream name")
)

// Publishing and reading errors.
var (
	// ErrEmptySubject is returned when a subject is empty.
	ErrEmptySubject = errors.New("empty subject")

	// ErrInvalidCount is returned when a message count is not positive.
	ErrInvalidCount = errors.New("message count must be positive")

	// ErrSubscriptionRequired is returned when a nil subscription is passed to a reader.
	ErrSubscriptionRequired = errors.New("subscription is required")
)

// Setup errors.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNATSConnectionRequired is returned when the NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")

	// ErrJetStreamRequired is returned when the JetStream context is nil.
	ErrJetStreamRequired = errors.New("JetStream context is required")
)
