// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

/*
Package supervisor runs the server's long-lived services under a suture v4
supervisor tree.

	RootSupervisor ("mealplan")
	├── ModelSupervisor ("model-layer")
	│   ├── TrainingService   startup, cron and on-demand retraining
	│   └── Reloader          swaps the served engine after each run
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The layers restart independently, so a crashing reloader does not take the
HTTP server down and the API keeps answering with the last loaded model.
Supervisor events are logged through sutureslog into zerolog.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Add(supervisor.LayerModel, trainingSvc)
	tree.Add(supervisor.LayerModel, reloader)
	tree.Add(supervisor.LayerAPI, httpSvc)
	err = tree.Serve(ctx)
*/
package supervisor
