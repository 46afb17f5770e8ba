package publish_test

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/jspull/publish"
	jstest "github.com/arloliu/jspull/testing"
	"github.com/arloliu/jspull/types"
)

// fatalRecorder captures Fatal calls instead of exiting.
type fatalRecorder struct {
	types.Logger

	once  sync.Once
	fatal chan string
}

func newFatalRecorder(t *testing.T) *fatalRecorder {
	return &fatalRecorder{Logger: jstest.NewTestLogger(t), fatal: make(chan string, 1)}
}

func (r *fatalRecorder) Fatal(msg string, _ ...any) {
	r.once.Do(func() { r.fatal <- msg })
}

type publishCounter struct {
	mu       sync.Mutex
	ok       map[string]int
	failures map[string]int
}

func newPublishCounter() *publishCounter {
	return &publishCounter{ok: map[string]int{}, failures: map[string]int{}}
}

func (c *publishCounter) RecordPublish(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ok[mode]++
}

func (c *publishCounter) RecordPublishFailure(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[mode]++
}

func (c *publishCounter) get(mode string) (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ok[mode], c.failures[mode]
}

func payloads(t *testing.T, stream jetstream.Stream, count int) []string {
	t.Helper()

	out := make([]string, 0, count)
	for seq := uint64(1); seq <= uint64(count); seq++ {
		msg, err := stream.GetMsg(t.Context(), seq)
		require.NoError(t, err)
		out = append(out, string(msg.Data))
	}

	return out
}

func TestPublisher_Publish(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)
	stream := jstest.CreateMemoryStream(t, js, "PUB", "pub.subject")

	var out bytes.Buffer
	mc := newPublishCounter()
	p, err := publish.New(js, publish.WithVerbose(&out), publish.WithMetrics(mc))
	require.NoError(t, err)

	require.NoError(t, p.Publish(t.Context(), "pub.subject", "a", 3))

	assert.Equal(t, "Publish -> a1 a2 a3 <-\n", out.String())
	assert.Equal(t, []string{"a1", "a2", "a3"}, payloads(t, stream, 3))

	ok, failed := mc.get("sync")
	assert.Equal(t, 3, ok)
	assert.Zero(t, failed)
}

func TestPublish_Shorthand(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)
	stream := jstest.CreateMemoryStream(t, js, "PUB", "pub.subject")

	require.NoError(t, publish.Publish(t.Context(), js, "pub.subject", "m", 5, nil))

	info, err := stream.Info(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), info.State.Msgs)
}

func TestPublisher_Publish_WithMsgID(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)
	stream := jstest.CreateMemoryStream(t, js, "PUB", "pub.subject")

	p, err := publish.New(js, publish.WithMsgID(true))
	require.NoError(t, err)
	require.NoError(t, p.Publish(t.Context(), "pub.subject", "d", 2))

	seen := map[string]bool{}
	for seq := uint64(1); seq <= 2; seq++ {
		msg, err := stream.GetMsg(t.Context(), seq)
		require.NoError(t, err)
		id := msg.Header.Get(jetstream.MsgIDHeader)
		require.NotEmpty(t, id)
		seen[id] = true
	}
	assert.Len(t, seen, 2, "every message gets its own id")
}

func TestPublisher_Publish_NoStream(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)

	var out bytes.Buffer
	mc := newPublishCounter()
	p, err := publish.New(js, publish.WithVerbose(&out), publish.WithMetrics(mc))
	require.NoError(t, err)

	err = p.Publish(t.Context(), "nobody.listens", "a", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message 1 of 3")
	assert.Equal(t, "Publish -> a1 <-\n", out.String(), "the verbose line is closed on failure")

	_, failed := mc.get("sync")
	assert.Equal(t, 1, failed)
}

func TestPublisher_InvalidArguments(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)

	p, err := publish.New(js)
	require.NoError(t, err)

	tests := []struct {
		name    string
		subject string
		count   int
		want    error
	}{
		{name: "empty subject", subject: "", count: 1, want: types.ErrEmptySubject},
		{name: "zero count", subject: "s", count: 0, want: types.ErrInvalidCount},
		{name: "negative count", subject: "s", count: -2, want: types.ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, p.Publish(t.Context(), tt.subject, "a", tt.count), tt.want)
			require.ErrorIs(t, p.PublishDontWait(tt.subject, "a", tt.count), tt.want)
		})
	}

	_, err = publish.New(nil)
	require.ErrorIs(t, err, types.ErrJetStreamRequired)
}

func TestPublisher_PublishDontWait(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)
	stream := jstest.CreateMemoryStream(t, js, "ASYNC", "async.subject")

	mc := newPublishCounter()
	p, err := publish.New(js, publish.WithLogger(jstest.NewTestLogger(t)), publish.WithMetrics(mc))
	require.NoError(t, err)

	require.NoError(t, p.PublishDontWait("async.subject", "b", 4))

	require.Eventually(t, func() bool {
		info, err := stream.Info(t.Context())
		return err == nil && info.State.Msgs == 4
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{"b-1", "b-2", "b-3", "b-4"}, payloads(t, stream, 4))

	ok, _ := mc.get("async")
	assert.Equal(t, 4, ok)
}

func TestPublisher_PublishDontWait_WithPool(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)
	stream := jstest.CreateMemoryStream(t, js, "ASYNC", "async.subject")

	pool, err := ants.NewPool(2)
	require.NoError(t, err)
	defer pool.Release()

	p, err := publish.New(js, publish.WithPool(pool), publish.WithLogger(jstest.NewTestLogger(t)))
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, p.PublishDontWait("async.subject", fmt.Sprintf("w%d", i), 10))
	}

	require.Eventually(t, func() bool {
		info, err := stream.Info(t.Context())
		return err == nil && info.State.Msgs == 30
	}, 5*time.Second, 20*time.Millisecond)
}

func TestPublisher_PublishDontWait_FailureIsFatal(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)

	rec := newFatalRecorder(t)
	mc := newPublishCounter()
	p, err := publish.New(js, publish.WithLogger(rec), publish.WithMetrics(mc))
	require.NoError(t, err)

	nc.Close()

	require.NoError(t, p.PublishDontWait("async.subject", "c", 3), "the call itself never blocks or fails")

	select {
	case msg := <-rec.fatal:
		assert.Equal(t, "background publish failed", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("background failure was not reported")
	}

	_, failed := mc.get("async")
	assert.Equal(t, 1, failed)
}

func TestPublisher_PublishDontWait_ClosedPool(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)

	pool, err := ants.NewPool(1)
	require.NoError(t, err)
	pool.Release()

	rec := newFatalRecorder(t)
	p, err := publish.New(js, publish.WithPool(pool), publish.WithLogger(rec))
	require.NoError(t, err)

	require.NoError(t, p.PublishDontWait("async.subject", "c", 1))

	select {
	case msg := <-rec.fatal:
		assert.Equal(t, "background publish could not be scheduled", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduling failure was not reported")
	}
}

func TestPublisher_PublishDontWait_SaturatedPool(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)
	stream := jstest.CreateMemoryStream(t, js, "ASYNC", "async.subject")

	// blocking pool whose only worker is busy
	pool, err := ants.NewPool(1)
	require.NoError(t, err)
	defer pool.Release()

	block := make(chan struct{})
	require.NoError(t, pool.Submit(func() { <-block }))

	p, err := publish.New(js, publish.WithPool(pool), publish.WithLogger(jstest.NewTestLogger(t)))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- p.PublishDontWait("async.subject", "x", 2)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		close(block)
		t.Fatal("PublishDontWait blocked on a saturated pool")
	}

	info, err := stream.Info(t.Context())
	require.NoError(t, err)
	assert.Zero(t, info.State.Msgs, "nothing runs until a worker frees up")

	close(block)

	require.Eventually(t, func() bool {
		info, err := stream.Info(t.Context())
		return err == nil && info.State.Msgs == 2
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{"x-1", "x-2"}, payloads(t, stream, 2))
}

func TestPublishDontWait_Shorthand(t *testing.T) {
	_, nc := jstest.StartEmbeddedNATS(t)
	js := jstest.NewJetStream(t, nc)
	stream := jstest.CreateMemoryStream(t, js, "ASYNC", "async.subject")

	require.NoError(t, publish.PublishDontWait(js, "async.subject", "s", 3, jstest.NewTestLogger(t)))

	require.Eventually(t, func() bool {
		info, err := stream.Info(t.Context())
		return err == nil && info.State.Msgs == 3
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{"s-1", "s-2", "s-3"}, payloads(t, stream, 3))
}
