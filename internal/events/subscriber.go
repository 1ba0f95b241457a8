package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler func(ctx context.Context, event Event) error

// Subscriber consumes one stream as a member of a consumer group. Entries
// the handler rejects stay in the consumer's pending list and are replayed
// the next time Start runs with the same consumer name.
type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
	log           *zap.Logger
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
	Logger        *zap.Logger
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
		log: config.Logger.With(
			zap.String("stream", config.Stream),
			zap.String("group", config.Group),
			zap.String("consumer", config.Consumer),
		),
	}
}

// Start replays this consumer's pending entries, then consumes new entries
// until ctx is cancelled. It returns ctx.Err() on shutdown and only fails
// early if the consumer group cannot be created.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	if err := s.replayPending(ctx); err != nil && ctx.Err() == nil {
		s.log.Warn("pending replay failed", zap.Error(err))
	}

	s.log.Info("subscriber started")
	for {
		if ctx.Err() != nil {
			s.log.Info("subscriber stopping")
			return ctx.Err()
		}
		if _, err := s.read(ctx, ">", s.blockDuration); err != nil {
			if ctx.Err() != nil {
				continue
			}
			s.log.Warn("error reading messages", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// replayPending walks the pending list once, oldest first. Entries that fail
// again are skipped and stay pending.
func (s *Subscriber) replayPending(ctx context.Context) error {
	lastID := "0"
	replayed := 0
	for {
		b, err := s.read(ctx, lastID, -1)
		if err != nil {
			return err
		}
		if b.count == 0 {
			break
		}
		replayed += b.count
		lastID = b.lastID
	}
	if replayed > 0 {
		s.log.Info("replayed pending entries", zap.Int("count", replayed))
	}
	return nil
}

type batch struct {
	count  int
	lastID string
}

// read fetches entries after id and dispatches them. A negative block issues
// a non-blocking read, which is what pending-list reads need.
func (s *Subscriber) read(ctx context.Context, id string, block time.Duration) (batch, error) {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, id},
		Count:    s.batchSize,
		Block:    block,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return batch{}, nil
	}
	if err != nil {
		return batch{}, fmt.Errorf("failed to read from stream: %w", err)
	}

	var b batch
	for _, stream := range streams {
		for _, message := range stream.Messages {
			b.count++
			b.lastID = message.ID
			s.dispatch(ctx, message)
		}
	}
	return b, nil
}

func (s *Subscriber) dispatch(ctx context.Context, message redis.XMessage) {
	if len(message.Values) == 0 {
		// trimmed from the stream while pending; nothing left to handle
		s.ack(ctx, message.ID)
		return
	}

	if err := s.processMessage(ctx, message); err != nil {
		s.log.Warn("failed to process message", zap.String("id", message.ID), zap.Error(err))
		return
	}
	s.ack(ctx, message.ID)
}

// ack outlives cancellation so a handled entry is not replayed after shutdown.
func (s *Subscriber) ack(ctx context.Context, id string) {
	if err := s.client.XAck(context.WithoutCancel(ctx), s.stream, s.group, id).Err(); err != nil {
		s.log.Warn("failed to ack message", zap.String("id", id), zap.Error(err))
	}
}

func (s *Subscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return s.handler(ctx, event)
}
