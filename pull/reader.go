package pull

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/arloliu/jspull/internal/logging"
	"github.com/arloliu/jspull/internal/metrics"
	"github.com/arloliu/jspull/internal/natsutil"
	"github.com/arloliu/jspull/message"
	"github.com/arloliu/jspull/types"
)

// Subscription is the part of a subscription a Reader needs.
//
// *nats.Subscription (a plain synchronous subscription) and *PullSubscription
// both satisfy it. NextMsg must return nats.ErrTimeout when nothing arrives
// within timeout.
type Subscription interface {
	NextMsg(timeout time.Duration) (*nats.Msg, error)
}

// Reader drains subscriptions and acknowledges JetStream messages.
type Reader struct {
	verbose io.Writer
	logger  types.Logger
	metrics types.ReadMetrics
	timeout time.Duration
}

// NewReader creates a Reader.
//
// Defaults: no verbose output, no-op logger and metrics, one second wait per
// message.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		timeout: DefaultNextMessageTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ReadMessagesAck drains sub using the Reader's configured wait.
func (r *Reader) ReadMessagesAck(sub Subscription) ([]*nats.Msg, error) {
	return r.ReadMessagesAckTimeout(sub, r.timeout)
}

// ReadMessagesAckTimeout reads from sub until no message arrives within
// timeout, and returns everything read in arrival order.
//
// Each message is handled by origin:
//   - JetStream: acknowledged; an ack failure stops the read
//   - status: kept, its code shows in verbose output
//   - plain: kept and logged as unexpected
//
// A NextMsg error other than a timeout stops the read. In both failure cases
// the messages read so far are returned with the error.
//
// Parameters:
//   - sub: Subscription to drain
//   - timeout: Per-message wait; non-positive values use the Reader's wait
//
// Returns:
//   - []*nats.Msg: Messages read, never nil
//   - error: Subscription or acknowledgement failure
func (r *Reader) ReadMessagesAckTimeout(sub Subscription, timeout time.Duration) ([]*nats.Msg, error) {
	if sub == nil {
		return []*nats.Msg{}, types.ErrSubscriptionRequired
	}
	if timeout <= 0 {
		timeout = r.timeout
	}

	start := time.Now()
	defer func() {
		r.metrics.ObserveReadDuration(time.Since(start).Seconds())
	}()

	msgs := []*nats.Msg{}
	for {
		msg, err := sub.NextMsg(timeout)
		if err != nil {
			if natsutil.IsTimeout(err) {
				break
			}
			r.logger.Error("failed to read next message",
				"read", len(msgs),
				"connectivity", natsutil.IsConnectivityError(err),
				"error", err)
			r.closeLine(len(msgs))

			return msgs, fmt.Errorf("failed to read message %d: %w", len(msgs)+1, err)
		}

		if len(msgs) == 0 {
			r.print("Read/Ack ->")
		}
		msgs = append(msgs, msg)

		origin := message.Origin(msg)
		r.metrics.RecordRead(origin)

		switch origin {
		case types.OriginJetStream:
			if err := msg.Ack(); err != nil {
				r.metrics.RecordAck(false)
				r.logger.Error("failed to ack message", "subject", msg.Subject, "error", err)
				r.closeLine(len(msgs))

				return msgs, fmt.Errorf("failed to ack message %d: %w", len(msgs), err)
			}
			r.metrics.RecordAck(true)
			r.print(" " + string(msg.Data))
		case types.OriginStatus:
			r.logger.Debug("status message",
				"code", message.StatusCode(msg),
				"description", message.StatusDescription(msg))
			r.print(" !" + strconv.Itoa(message.StatusCode(msg)) + "!")
		default:
			r.logger.Warn("unexpected non-JetStream message", "subject", msg.Subject, "reply", msg.Reply)
			r.print(" ?" + string(msg.Data) + "?")
		}
	}

	r.finish(len(msgs))

	return msgs, nil
}

func (r *Reader) finish(read int) {
	if read == 0 {
		r.print("No messages available.\n")
	} else {
		r.print(" <- \n")
	}
}

// closeLine ends a partially written verbose line after a failure.
func (r *Reader) closeLine(read int) {
	if read > 0 {
		r.print(" <- \n")
	}
}

func (r *Reader) print(s string) {
	if r.verbose != nil {
		_, _ = io.WriteString(r.verbose, s)
	}
}

// ReadMessagesAck drains sub with the default one second wait, echoing to
// verbose when it is not nil.
func ReadMessagesAck(sub Subscription, verbose io.Writer) ([]*nats.Msg, error) {
	return NewReader(WithVerbose(verbose)).ReadMessagesAck(sub)
}
