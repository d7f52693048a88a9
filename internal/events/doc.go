// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

/*
Package events provides the in-process message bus used to hand freshly
trained models to the serving engine.

The bus is a Watermill GoChannel pub/sub. The trainer publishes a
ModelTrained message on TopicModelTrained after every successful run; the
Reloader subscribes, loads that artifact version from the model store, and
swaps it into the recommend.Holder that the API and scheduler query.

	bus := events.NewBus(logger)
	trainer.SetNotifier(bus)

	reloader := events.NewReloader(bus, store, holder, cfg, logger)
	go reloader.Serve(ctx)

Messages are acknowledged even when a reload fails; a failed version is
logged and the previous engine keeps serving.
*/
package events
