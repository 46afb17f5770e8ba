package message

import (
	"github.com/nats-io/nats.go"

	"github.com/arloliu/jspull/types"
)

// CountJetStream returns how many messages in msgs are JetStream deliveries.
func CountJetStream(msgs []*nats.Msg) int {
	count := 0
	for _, m := range msgs {
		if IsJetStream(m) {
			count++
		}
	}

	return count
}

// Count408s returns how many messages in msgs are 408 Request Timeout
// status messages, the server's "nothing arrived before the pull expired".
func Count408s(msgs []*nats.Msg) int {
	count := 0
	for _, m := range msgs {
		if StatusCode(m) == StatusRequestTimeout {
			count++
		}
	}

	return count
}

// Count tallies msgs by origin in a single pass.
func Count(msgs []*nats.Msg) types.Tally {
	var tally types.Tally
	for _, m := range msgs {
		switch Origin(m) {
		case types.OriginJetStream:
			tally.JetStream++
		case types.OriginStatus:
			tally.Status++
			if StatusCode(m) == StatusRequestTimeout {
				tally.Timeouts++
			}
		default:
			tally.Plain++
		}
	}

	return tally
}
