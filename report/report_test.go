package report_test

import (
	"bytes"
	"slices"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/jspull/report"
)

func msgs(data ...string) []*nats.Msg {
	out := make([]*nats.Msg, 0, len(data))
	for _, d := range data {
		out = append(out, &nats.Msg{Subject: "s", Data: []byte(d)})
	}

	return out
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		msgs []*nats.Msg
		want string
	}{
		{name: "two messages", msgs: msgs("d1", "d2"), want: "Fetch -> d1 d2 <- \n"},
		{name: "empty", msgs: nil, want: "Fetch -> <- \n"},
		{
			name: "status message has no payload",
			msgs: append(msgs("d1"), &nats.Msg{Header: nats.Header{"Status": []string{"408"}}}),
			want: "Fetch -> d1  <- \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			report.Report(&out, tt.msgs)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestReportSeq(t *testing.T) {
	in := msgs("a", "b", "c")

	var out bytes.Buffer
	got := report.ReportSeq(&out, slices.Values(in))

	assert.Equal(t, "Fetch -> a b c <- \n", out.String())
	assert.Equal(t, in, got)
}

func TestReportSeq_Empty(t *testing.T) {
	var out bytes.Buffer
	got := report.ReportSeq(&out, slices.Values([]*nats.Msg(nil)))

	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, "Fetch -> <- \n", out.String())
}

func TestFromChan(t *testing.T) {
	ch := make(chan *nats.Msg, 3)
	for _, m := range msgs("x1", "x2", "x3") {
		ch <- m
	}
	close(ch)

	var out bytes.Buffer
	got := report.ReportSeq(&out, report.FromChan(ch))

	require.Len(t, got, 3)
	assert.Equal(t, "Fetch -> x1 x2 x3 <- \n", out.String())
}

func TestFromChan_StopsEarly(t *testing.T) {
	ch := make(chan *nats.Msg, 3)
	for _, m := range msgs("x1", "x2", "x3") {
		ch <- m
	}
	close(ch)

	var seen []string
	for m := range report.FromChan(ch) {
		seen = append(seen, string(m.Data))
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"x1", "x2"}, seen)
	assert.Len(t, ch, 1, "the rest stays in the channel")
}
