// Package report prints one-line summaries of fetched message batches.
package report

import (
	"bufio"
	"io"
	"iter"

	"github.com/nats-io/nats.go"
)

// Report writes the payload of every message in msgs to w on one line:
//
//	Fetch -> a1 a2 a3 <-
//
// Status messages have no payload and show as an empty field. Write errors
// are ignored.
func Report(w io.Writer, msgs []*nats.Msg) {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString("Fetch ->")
	for _, m := range msgs {
		writeData(bw, m)
	}
	_, _ = bw.WriteString(" <- \n")
	_ = bw.Flush()
}

// ReportSeq drains seq, writing the same line as Report, and returns the
// messages in the order seq produced them.
//
// Output is streamed as messages arrive, so a slow cursor shows progress.
func ReportSeq(w io.Writer, seq iter.Seq[*nats.Msg]) []*nats.Msg {
	msgs := []*nats.Msg{}

	_, _ = io.WriteString(w, "Fetch ->")
	for m := range seq {
		msgs = append(msgs, m)
		writeData(w, m)
	}
	_, _ = io.WriteString(w, " <- \n")

	return msgs
}

// FromChan adapts a channel of messages to a cursor ending when ch closes.
func FromChan(ch <-chan *nats.Msg) iter.Seq[*nats.Msg] {
	return func(yield func(*nats.Msg) bool) {
		for m := range ch {
			if !yield(m) {
				return
			}
		}
	}
}

func writeData(w io.Writer, m *nats.Msg) {
	_, _ = io.WriteString(w, " ")
	if m != nil {
		_, _ = w.Write(m.Data)
	}
}
