// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mealplan/internal/metrics"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/recommend/storage"
)

// Reloader swaps newly trained models into a recommend.Holder.
type Reloader struct {
	bus    *Bus
	store  *storage.Store
	holder *recommend.Holder
	config *recommend.Config
	logger zerolog.Logger

	// Serializes reloads so an older version never replaces a newer one.
	mu sync.Mutex

	ready     chan struct{}
	readyOnce sync.Once
}

// NewReloader creates a reloader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloader(bus *Bus, store *storage.Store, holder *recommend.Holder, cfg *recommend.Config, logger zerolog.Logger) *Reloader {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	return &Reloader{
		bus:    bus,
		store:  store,
		holder: holder,
		config: cfg,
		logger: logger.With().Str("component", "reloader").Logger(),
		ready:  make(chan struct{}),
	}
}

// Ready is closed once Serve has subscribed for the first time.
func (r *Reloader) Ready() <-chan struct{} {
	return r.ready
}

// Reload loads artifact version (0 for latest) and installs it unless the
// holder already serves that version or a newer one. It reports whether
// the engine was swapped.
func (r *Reloader) Reload(ctx context.Context, version int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, err := r.holder.Get(); err == nil && version > 0 && current.Version() >= version {
		r.logger.Debug().Int("version", version).Int("current", current.Version()).Msg("model already current")
		return false, nil
	}

	art, err := recommend.LoadArtifacts(ctx, r.store, version)
	if err != nil {
		return false, fmt.Errorf("failed to load artifacts: %w", err)
	}
	if current, err := r.holder.Get(); err == nil && current.Version() >= art.Version {
		return false, nil
	}

	engine, err := recommend.NewEngine(art, r.config, r.logger)
	if err != nil {
		return false, fmt.Errorf("failed to create engine: %w", err)
	}

	previous := r.holder.Swap(engine)
	metrics.SetModelInfo(art.Version, art.Catalog.Len(), art.Vectorizer.Dim())

	event := r.logger.Info().Int("version", art.Version).Int("meals", art.Catalog.Len())
	if previous != nil {
		event = event.Int("previous_version", previous.Version())
	}
	event.Msg("model loaded")
	return true, nil
}

// Serve consumes TopicModelTrained until ctx is canceled. It satisfies
// suture.Service.
func (r *Reloader) Serve(ctx context.Context) error {
	msgs, err := r.bus.Subscribe(ctx, TopicModelTrained)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicModelTrained, err)
	}

	r.readyOnce.Do(func() { close(r.ready) })
	r.logger.Info().Str("topic", TopicModelTrained).Msg("reloader started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ctx.Err()
			}
			r.handle(ctx, msg)
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (r *Reloader) String() string {
	return "model-reloader"
}

func (r *Reloader) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	ev, err := decodeModelTrained(msg)
	if err != nil {
		r.logger.Error().Err(err).Msg("dropping malformed event")
		return
	}

	if _, err := r.Reload(ctx, ev.Version); err != nil {
		r.logger.Error().Err(err).Int("version", ev.Version).Msg("failed to reload model")
	}
}
