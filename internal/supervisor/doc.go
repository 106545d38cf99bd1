// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs the long-lived parts of Cinematch under suture v4.

Services are grouped in two layers so a failure in one does not take down
the other:

	RootSupervisor ("cinematch")
	├── ModelSupervisor ("model-layer")
	│   ├── RecommendService   (load or build, periodic rebuild)
	│   └── ModelWatchService  (if RECOMMEND_WATCH_MODEL and the file store)
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService
	    └── MaintenanceService (lockout and cache expiry)

Supervisor events are logged through sutureslog, which main wires to the
zerolog slog bridge:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddModelService(services.NewRecommendService(engine, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)

Services live in the services subpackage.
*/
package supervisor
