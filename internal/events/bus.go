// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/metrics"
)

// TopicModelTrained carries ModelTrained payloads.
const TopicModelTrained = "model.trained"

// ErrBusClosed is returned when publishing on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// ModelTrained announces a newly saved artifact version.
type ModelTrained struct {
	Version   int       `json:"version"`
	Meals     int       `json:"meals"`
	TrainedAt time.Time `json:"trained_at"`
}

// Bus is a Watermill GoChannel pub/sub.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
	closed atomic.Bool
	now    func() time.Time
}

// NewBus creates an in-process bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(logger zerolog.Logger) *Bus {
	logger = logger.With().Str("component", "events").Logger()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 16,
		}, logging.NewWatermillLogger(logger)),
		logger: logger,
		now:    time.Now,
	}
}

// Publish sends payload as JSON on topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	if b.closed.Load() {
		return ErrBusClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
		msg.Metadata.Set("request_id", reqID)
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)
	return nil
}

// NotifyTrained implements recommend.TrainedNotifier.
func (b *Bus) NotifyTrained(ctx context.Context, version, meals int) error {
	b.logger.Debug().Int("version", version).Int("meals", meals).Msg("publishing model trained event")
	return b.Publish(ctx, TopicModelTrained, ModelTrained{
		Version:   version,
		Meals:     meals,
		TrainedAt: b.now().UTC(),
	})
}

// Subscribe returns the message channel for topic. The channel closes when
// ctx is canceled or the bus is closed. Each message must be acked or
// nacked before the next is delivered.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down. It is safe to call more than once.
func (b *Bus) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	return b.pubsub.Close()
}

// decodeModelTrained parses a ModelTrained payload.
func decodeModelTrained(msg *message.Message) (ModelTrained, error) {
	var ev ModelTrained
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ModelTrained{}, fmt.Errorf("failed to decode %s message %s: %w", TopicModelTrained, msg.UUID, err)
	}
	if ev.Version <= 0 {
		return ModelTrained{}, fmt.Errorf("invalid model version %d", ev.Version)
	}
	return ev, nil
}
