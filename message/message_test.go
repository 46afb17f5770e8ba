package message

import (
	"math/rand/v2"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/jspull/types"
)

func jsMsg(data string) *nats.Msg {
	return &nats.Msg{
		Subject: "orders.new",
		Reply:   "$JS.ACK.ORDERS.reader.1.1.1.1700000000000000000.0",
		Data:    []byte(data),
	}
}

func statusMsg(code, description string) *nats.Msg {
	m := nats.NewMsg("_INBOX.abc")
	m.Header.Set(StatusHeader, code)
	m.Header.Set(DescriptionHeader, description)

	return m
}

func plainMsg(data string) *nats.Msg {
	return &nats.Msg{Subject: "orders.new", Data: []byte(data)}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		name string
		msg  *nats.Msg
		want types.Origin
	}{
		{"nil", nil, types.OriginPlain},
		{"jetstream delivery", jsMsg("a1"), types.OriginJetStream},
		{"request timeout", statusMsg("408", "Request Timeout"), types.OriginStatus},
		{"no messages", statusMsg("404", "No Messages"), types.OriginStatus},
		{"plain", plainMsg("hello"), types.OriginPlain},
		{"plain with reply", &nats.Msg{Subject: "x", Reply: "_INBOX.1"}, types.OriginPlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Origin(tt.msg))
		})
	}
}

func TestStatusPrecedence(t *testing.T) {
	m := statusMsg("408", "Request Timeout")
	m.Reply = "$JS.ACK.ORDERS.reader.1.1.1.1.0"

	require.True(t, IsStatus(m))
	require.False(t, IsJetStream(m))
	require.Equal(t, types.OriginStatus, Origin(m))
}

func TestStatusCode(t *testing.T) {
	require.Equal(t, 408, StatusCode(statusMsg("408", "Request Timeout")))
	require.Equal(t, 404, StatusCode(statusMsg(" 404 ", "No Messages")))
	require.Equal(t, 0, StatusCode(statusMsg("bogus", "")))
	require.Equal(t, 0, StatusCode(jsMsg("a1")))
	require.Equal(t, 0, StatusCode(nil))
}

func TestStatusDescription(t *testing.T) {
	require.Equal(t, "Request Timeout", StatusDescription(statusMsg("408", "Request Timeout")))
	require.Empty(t, StatusDescription(jsMsg("a1")))
}

func TestCounters(t *testing.T) {
	msgs := []*nats.Msg{
		jsMsg("a1"),
		jsMsg("a2"),
		statusMsg("408", "Request Timeout"),
		plainMsg("stray"),
		jsMsg("a3"),
		statusMsg("404", "No Messages"),
		statusMsg("408", "Request Timeout"),
	}

	require.Equal(t, 3, CountJetStream(msgs))
	require.Equal(t, 2, Count408s(msgs))

	tally := Count(msgs)
	require.Equal(t, types.Tally{JetStream: 3, Status: 3, Plain: 1, Timeouts: 2}, tally)
	require.Equal(t, len(msgs), tally.Total())
}

func TestCounters_OrderIndependent(t *testing.T) {
	msgs := []*nats.Msg{
		jsMsg("a1"), jsMsg("a2"), jsMsg("a3"), jsMsg("a4"),
		statusMsg("408", "Request Timeout"), statusMsg("408", "Request Timeout"),
		plainMsg("x"),
	}

	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic shuffle
	for range 20 {
		rng.Shuffle(len(msgs), func(i, j int) { msgs[i], msgs[j] = msgs[j], msgs[i] })

		require.Equal(t, 4, CountJetStream(msgs))
		require.Equal(t, 2, Count408s(msgs))
	}
}

func TestCounters_Empty(t *testing.T) {
	require.Zero(t, CountJetStream(nil))
	require.Zero(t, Count408s([]*nats.Msg{}))
	require.Equal(t, types.Tally{}, Count(nil))
}
