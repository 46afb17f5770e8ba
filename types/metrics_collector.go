package types

// MetricsCollector records operational metrics for the helpers.
//
// Implementations must be safe for concurrent use and must not block: the
// background publisher calls them from its own goroutine.
type MetricsCollector interface {
	PublishMetrics
	ReadMetrics
	ProvisionMetrics
}

// PublishMetrics covers synchronous and background publishing.
type PublishMetrics interface {
	// RecordPublish records one successfully published message.
	//
	// Parameters:
	//   - mode: "sync" or "async"
	RecordPublish(mode string)

	// RecordPublishFailure records one failed publish attempt.
	RecordPublishFailure(mode string)
}

// ReadMetrics covers pull reading and acknowledgement.
type ReadMetrics interface {
	// RecordRead records one message returned by a pull subscription.
	RecordRead(origin Origin)

	// RecordAck records one acknowledgement attempt.
	RecordAck(success bool)

	// ObserveReadDuration records how long one drain of a subscription took.
	//
	// Parameters:
	//   - seconds: Wall time of the drain, including the final empty wait
	ObserveReadDuration(seconds float64)
}

// ProvisionMetrics covers stream provisioning.
type ProvisionMetrics interface {
	// RecordStreamCreated records a stream created by a provisioner.
	RecordStreamCreated()
}
