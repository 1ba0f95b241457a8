package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublisher_Publish(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewPublisher(client)
	p.now = func() time.Time { return fixed }

	err := p.Publish(ctx, TransactionEventsStream, TransactionCreated, TransactionCreatedEvent{
		TransactionID: "txn-1",
		AccountID:     "acc-1",
		Amount:        decimal.RequireFromString("12.50"),
		Source:        "manual",
	})
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, TransactionEventsStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	raw, ok := msgs[0].Values["event"].(string)
	require.True(t, ok)

	var got struct {
		Type      string          `json:"type"`
		Timestamp time.Time       `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, TransactionCreated, got.Type)
	assert.True(t, fixed.Equal(got.Timestamp))

	var data TransactionCreatedEvent
	require.NoError(t, json.Unmarshal(got.Data, &data))
	assert.Equal(t, "txn-1", data.TransactionID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(data.Amount))
}

func TestPublisher_PublishClosedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Close())

	err := NewPublisher(client).Publish(context.Background(), UserEventsStream, UserCreated, UserCreatedEvent{UserID: "usr-1"})
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), UserEventsStream, UserCreated, nil))
}

func TestSubscriber_ConsumesAndAcks(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "audit",
		Consumer:      "audit-1",
		Stream:        AccountEventsStream,
		BlockDuration: 50 * time.Millisecond,
		Handler: func(_ context.Context, e Event) error {
			received <- e
			return nil
		},
	})

	done := make(chan error, 1)
	go func() { done <- sub.Start(ctx) }()

	require.NoError(t, NewPublisher(client).Publish(ctx, AccountEventsStream, AccountDeactivated, AccountDeactivatedEvent{
		AccountID: "acc-1",
		UserID:    "usr-1",
	}))

	select {
	case e := <-received:
		assert.Equal(t, AccountDeactivated, e.Type)
		data, ok := e.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "acc-1", data["accountId"])
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
	assert.Eventually(t, func() bool {
		return pendingCount(t, client, AccountEventsStream, "audit") == 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestSubscriber_FailedHandlerLeavesMessagePending(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempted := make(chan struct{}, 1)
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "audit",
		Consumer:      "audit-1",
		Stream:        UserEventsStream,
		BlockDuration: 50 * time.Millisecond,
		Handler: func(context.Context, Event) error {
			select {
			case attempted <- struct{}{}:
			default:
			}
			return errors.New("boom")
		},
	})

	done := make(chan error, 1)
	go func() { done <- sub.Start(ctx) }()

	require.NoError(t, NewPublisher(client).Publish(ctx, UserEventsStream, UserCreated, UserCreatedEvent{UserID: "usr-1"}))

	select {
	case <-attempted:
	case <-time.After(5 * time.Second):
		t.Fatal("handler not invoked")
	}
	cancel()
	<-done

	pending, err := client.XPending(context.Background(), UserEventsStream, "audit").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending.Count)
}

func TestAuditHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := AuditHandler(zap.New(core))

	err := h(context.Background(), Event{Type: AccountDeleted, Data: map[string]any{"accountId": "acc-1"}})
	require.NoError(t, err)

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, AccountDeleted, entries[0].ContextMap()["type"])
}

func pendingCount(t *testing.T, client *redis.Client, stream, group string) int64 {
	t.Helper()
	pending, err := client.XPending(context.Background(), stream, group).Result()
	if err != nil {
		t.Logf("xpending %s: %v", stream, err)
		return -1
	}
	return pending.Count
}

func TestSubscriber_ReplaysPendingOnRestart(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	newSub := func(h Handler) *Subscriber {
		return NewSubscriber(client, SubscriberConfig{
			Group:         "audit",
			Consumer:      "audit-1",
			Stream:        TransactionEventsStream,
			BlockDuration: 50 * time.Millisecond,
			Handler:       h,
		})
	}
	run := func(sub *Subscriber, until func() bool) {
		t.Helper()
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- sub.Start(runCtx) }()
		assert.Eventually(t, until, 5*time.Second, 10*time.Millisecond)
		cancel()
		<-done
	}

	require.NoError(t, NewPublisher(client).Publish(ctx, TransactionEventsStream, TransactionDeleted, TransactionDeletedEvent{
		TransactionID: "txn-1",
	}))

	var failures atomic.Int32
	run(newSub(func(context.Context, Event) error {
		failures.Add(1)
		return errors.New("audit sink unavailable")
	}), func() bool { return failures.Load() > 0 })

	require.EqualValues(t, 1, pendingCount(t, client, TransactionEventsStream, "audit"))

	replayed := make(chan Event, 1)
	run(newSub(func(_ context.Context, e Event) error {
		replayed <- e
		return nil
	}), func() bool { return pendingCount(t, client, TransactionEventsStream, "audit") == 0 })

	select {
	case e := <-replayed:
		assert.Equal(t, TransactionDeleted, e.Type)
	default:
		t.Fatal("pending entry was not replayed")
	}
}
