package message

import (
	"strconv"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/arloliu/jspull/types"
)

// Header names set by the server on status messages.
const (
	StatusHeader      = "Status"
	DescriptionHeader = "Description"
)

// Status codes the server sends to pull requesters.
const (
	StatusControl        = 100 // idle heartbeat or flow control
	StatusNoMessages     = 404
	StatusRequestTimeout = 408
	StatusConflict       = 409
)

// ackPrefix starts the reply subject of every JetStream delivery.
const ackPrefix = "$JS.ACK."

// Origin classifies m. Status wins over JetStream because status messages are
// never acknowledged.
func Origin(m *nats.Msg) types.Origin {
	switch {
	case m == nil:
		return types.OriginPlain
	case IsStatus(m):
		return types.OriginStatus
	case IsJetStream(m):
		return types.OriginJetStream
	default:
		return types.OriginPlain
	}
}

// IsJetStream reports whether m was delivered by a JetStream consumer.
func IsJetStream(m *nats.Msg) bool {
	if m == nil || IsStatus(m) {
		return false
	}

	return strings.HasPrefix(m.Reply, ackPrefix)
}

// IsStatus reports whether m is a server status message.
func IsStatus(m *nats.Msg) bool {
	if m == nil || m.Header == nil {
		return false
	}

	return m.Header.Get(StatusHeader) != ""
}

// StatusCode returns the numeric status of m, or 0 when m is not a status
// message or the header is malformed.
func StatusCode(m *nats.Msg) int {
	if !IsStatus(m) {
		return 0
	}

	code, err := strconv.Atoi(strings.TrimSpace(m.Header.Get(StatusHeader)))
	if err != nil {
		return 0
	}

	return code
}

// StatusDescription returns the description the server attached to a status
// message, e.g. "Request Timeout".
func StatusDescription(m *nats.Msg) string {
	if !IsStatus(m) {
		return ""
	}

	return m.Header.Get(DescriptionHeader)
}
