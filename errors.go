package jspull

import "github.com/arloliu/jspull/types"

// Sentinel errors, re-exported from the types package so callers can match
// them without importing it.
var (
	ErrStreamExists         = types.ErrStreamExists
	ErrSubjectMismatch      = types.ErrSubjectMismatch
	ErrEmptyStreamName      = types.ErrEmptyStreamName
	ErrEmptySubject         = types.ErrEmptySubject
	ErrInvalidCount         = types.ErrInvalidCount
	ErrSubscriptionRequired = types.ErrSubscriptionRequired

	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrNATSConnectionRequired is returned when Run is given a nil connection.
	ErrNATSConnectionRequired = types.ErrNATSConnectionRequired

	ErrJetStreamRequired = types.ErrJetStreamRequired
)
