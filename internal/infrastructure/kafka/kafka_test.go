package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader serves queued messages, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	fetchErrs []error
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

// ============================================
// Producer Tests
// ============================================

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w)
	p.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	err := p.Publish(context.Background(), "JOH-4KQ9Z2MA", "order_placed", map[string]string{"tracking_id": "JOH-4KQ9Z2MA"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "JOH-4KQ9Z2MA", string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte("order_placed")}}, msg.Headers)

	var body map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "JOH-4KQ9Z2MA", body["tracking_id"])
}

func TestProducer_Publish_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := newProducer(w)

	err := p.Publish(context.Background(), "k", "order_placed", struct{}{})
	assert.EqualError(t, err, "broker unavailable")
}

func TestProducer_Publish_MarshalError(t *testing.T) {
	p := newProducer(&fakeWriter{})

	err := p.Publish(context.Background(), "k", "order_placed", make(chan int))
	assert.Error(t, err)
}

// ============================================
// Consumer Tests
// ============================================

func TestConsumer_CommitsAfterHandling(t *testing.T) {
	r := &fakeReader{
		queue: []kafka.Message{
			{Key: []byte("a"), Value: []byte("1"), Offset: 10},
			{Key: []byte("b"), Value: []byte("2"), Offset: 11},
		},
	}
	c := &Consumer{reader: r}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	handler := func(ctx context.Context, key, value []byte) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(key))
		if string(key) == "a" {
			return errors.New("smtp down")
		}
		if len(seen) == 2 {
			cancel()
		}
		return nil
	}

	err := c.Consume(ctx, handler)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, []int64{10, 11}, r.Committed(), "failed messages are committed too")
}

func TestConsumer_SkipsFetchErrors(t *testing.T) {
	r := &fakeReader{
		fetchErrs: []error{errors.New("rebalance in progress")},
		queue:     []kafka.Message{{Key: []byte("a"), Offset: 3}},
	}
	c := &Consumer{reader: r}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := 0
	err := c.Consume(ctx, func(ctx context.Context, key, value []byte) error {
		handled++
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, handled)
}
