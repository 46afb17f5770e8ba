package pull

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/zeebo/xxh3"

	"github.com/arloliu/jspull/types"
)

// DefaultAPIPrefix is the JetStream API prefix of a server without a domain.
const DefaultAPIPrefix = "$JS.API"

// apiNext follows the API prefix in a pull request subject, which ends with
// "<stream>.<consumer>".
const apiNext = ".CONSUMER.MSG.NEXT."

// ConsumerConfig describes the durable pull consumer Subscribe binds to.
type ConsumerConfig struct {
	// Durable is the consumer name. When empty a stable name is derived
	// from the stream and FilterSubject.
	Durable string

	// FilterSubject restricts the consumer to one subject. Empty means
	// every subject of the stream.
	FilterSubject string

	// AckWait is how long the server waits for an ack before redelivering.
	// Zero keeps the server default (30s).
	AckWait time.Duration

	// MaxAckPending caps unacknowledged messages. Zero keeps the server
	// default.
	MaxAckPending int

	// APIPrefix is the JetStream API prefix pull requests are sent to.
	// Empty means DefaultAPIPrefix. It must match the JetStream context:
	// the prefix given to jetstream.NewWithAPIPrefix, or "$JS.<domain>.API"
	// for jetstream.NewWithDomain. Otherwise the consumer is created but
	// pull requests are never answered.
	APIPrefix string
}

// PullSubscription is a pull subscription on a durable JetStream consumer.
//
// Messages and status replies for every Pull arrive on one private inbox
// and are read with NextMsg, so the caller sees server status messages
// exactly as they were sent.
type PullSubscription struct {
	nc       *nats.Conn
	sub      *nats.Subscription
	consumer jetstream.Consumer
	stream   string
	name     string
	inbox    string
	next     string

	mu     sync.Mutex
	closed bool
}

var _ Subscription = (*PullSubscription)(nil)

// pullRequest is the JSON body of a pull request.
type pullRequest struct {
	Batch   int   `json:"batch"`
	Expires int64 `json:"expires,omitempty"`
	NoWait  bool  `json:"no_wait,omitempty"`
}

// Subscribe creates or updates a durable explicit-ack pull consumer on
// stream and opens a subscription for it.
//
// No messages are requested yet; call Pull or PullNoWait. For a JetStream
// context created with a domain or custom API prefix, set cfg.APIPrefix to
// match.
//
// Parameters:
//   - ctx: Context for the consumer create/update call
//   - js: JetStream context; its connection carries the subscription
//   - stream: Name of an existing stream
//   - cfg: Consumer settings
//
// Returns:
//   - *PullSubscription: Open subscription
//   - error: Argument error, or the server's error from consumer creation
func Subscribe(ctx context.Context, js jetstream.JetStream, stream string, cfg ConsumerConfig) (*PullSubscription, error) {
	if js == nil {
		return nil, types.ErrJetStreamRequired
	}
	if stream == "" {
		return nil, types.ErrEmptyStreamName
	}

	name := cfg.Durable
	if name == "" {
		name = ConsumerName(stream, cfg.FilterSubject)
	}
	name = sanitizeConsumerName(name)

	consumer, err := js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		Durable:       name,
		FilterSubject: cfg.FilterSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.AckWait,
		MaxAckPending: cfg.MaxAckPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %q on stream %q: %w", name, stream, err)
	}

	nc := js.Conn()
	inbox := nc.NewInbox()
	sub, err := nc.SubscribeSync(inbox)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to pull inbox: %w", err)
	}

	return &PullSubscription{
		nc:       nc,
		sub:      sub,
		consumer: consumer,
		stream:   stream,
		name:     name,
		inbox:    inbox,
		next:     nextSubject(cfg.APIPrefix, stream, name),
	}, nil
}

// Pull asks the server for up to batch messages. The request stays open
// until batch messages were delivered or expires elapsed; on expiry the
// server answers with a 408 status message.
//
// A non-positive expires leaves the request open until batch is filled.
func (s *PullSubscription) Pull(batch int, expires time.Duration) error {
	req := pullRequest{Batch: batch}
	if expires > 0 {
		req.Expires = expires.Nanoseconds()
	}

	return s.request(req)
}

// PullNoWait asks for up to batch messages that are available right now.
// When there are none the server answers with a 404 status message.
func (s *PullSubscription) PullNoWait(batch int) error {
	return s.request(pullRequest{Batch: batch, NoWait: true})
}

func (s *PullSubscription) request(req pullRequest) error {
	if req.Batch <= 0 {
		return fmt.Errorf("batch %d: %w", req.Batch, types.ErrInvalidCount)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode pull request: %w", err)
	}

	if err := s.nc.PublishRequest(s.next, s.inbox, body); err != nil {
		return fmt.Errorf("failed to send pull request for consumer %q: %w", s.name, err)
	}

	return nil
}

// NextMsg returns the next message or status reply, waiting up to timeout.
// It returns nats.ErrTimeout when nothing arrives in time.
func (s *PullSubscription) NextMsg(timeout time.Duration) (*nats.Msg, error) {
	return s.sub.NextMsg(timeout)
}

// ConsumerName returns the durable consumer name in use.
func (s *PullSubscription) ConsumerName() string {
	return s.name
}

// Consumer returns the consumer handle, e.g. for Info.
func (s *PullSubscription) Consumer() jetstream.Consumer {
	return s.consumer
}

// Unsubscribe closes the inbox subscription. The durable consumer is kept.
// Calling it more than once is a no-op.
func (s *PullSubscription) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return s.sub.Unsubscribe()
}

// nextSubject builds the subject a pull request for stream/consumer goes to.
func nextSubject(apiPrefix, stream, consumer string) string {
	apiPrefix = strings.TrimSuffix(apiPrefix, ".")
	if apiPrefix == "" {
		apiPrefix = DefaultAPIPrefix
	}

	return apiPrefix + apiNext + stream + "." + consumer
}

// ConsumerName derives a stable durable name from stream and filter subject.
//
// The same inputs always yield the same name, so repeated runs reuse one
// consumer instead of piling up new ones.
func ConsumerName(stream, filterSubject string) string {
	h := xxh3.HashString(stream)
	h = xxh3.HashStringSeed(filterSubject, h)

	return sanitizeConsumerName(stream) + "-pull-" + strconv.FormatUint(h, 36)
}

// sanitizeConsumerName replaces characters NATS rejects in consumer names
// (whitespace, '.', '*', '>', path separators, non-printables) with '_'.
func sanitizeConsumerName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
			r == '.' || r == '*' || r == '>' ||
			r == '/' || r == '\\' ||
			r < 32 || r == 127 {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
