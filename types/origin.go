package types

// Origin classifies where a received message came from.
type Origin int

const (
	// OriginPlain is a core NATS message that is neither a JetStream delivery
	// nor a status message. Pull readers treat it as unexpected.
	OriginPlain Origin = iota

	// OriginJetStream is a message delivered by a JetStream consumer. It carries
	// an ack reply subject and must be acknowledged.
	OriginJetStream

	// OriginStatus is a server status message (for example 404 No Messages or
	// 408 Request Timeout) sent in response to a pull request.
	OriginStatus
)

// String returns the lowercase name of the origin, used as a metrics label.
func (o Origin) String() string {
	switch o {
	case OriginPlain:
		return "plain"
	case OriginJetStream:
		return "jetstream"
	case OriginStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Tally holds per-origin counts for one batch of messages.
type Tally struct {
	JetStream int
	Status    int
	Plain     int

	// Timeouts counts status messages with code 408, a subset of Status.
	Timeouts int
}

// Total returns the number of messages counted.
func (t Tally) Total() int {
	return t.JetStream + t.Status + t.Plain
}
