// Package pkg holds the libraries behind itemshuffle.
//
// # Overview
//
// Itemshuffle places the items of a game world into its item slots so that
// the world can always be completed. The work happens in three stages:
//
//	world file (TOML)
//	       ↓
//	  [worldfile]  parse and build the node graph
//	       ↓
//	  [integrate]  reduce the graph to slots and the item sets that open them
//	       ↓
//	  [fill]       assumed fill, retried until a placement is completable
//	       ↓
//	  assignment, playthrough spheres
//
// # Packages
//
//   - [world]: the node types (areas, connections, slots, items, triggers,
//     bosses) and the graph that owns them.
//   - [resolve]: requirement sets in disjunctive normal form.
//   - [bitset]: the item sets used by [resolve] and [logic].
//   - [logic]: the reduced location list, reachability and the audit.
//   - [integrate]: the reduction from [world] to [logic].
//   - [fill]: placement strategies and the playthrough replay.
//   - [worldfile]: the TOML world format and a sample world.
//   - [shuffle]: the runner that ties the stages together with caching.
//   - [cache]: file, Redis and no-op result caches.
//   - [render/dot]: Graphviz diagrams of a reduced world.
//   - [errors]: coded errors shared by the CLI and the HTTP API.
//   - [observability]: hooks for metrics and tracing.
//
// # Quick Start
//
//	runner := shuffle.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Run(ctx, shuffle.Options{
//	    Source: worldfile.Example,
//	    Seed:   42,
//	})
//	if err != nil {
//	    return err
//	}
//	for slot, item := range res.Assignment {
//	    fmt.Println(slot, "→", item)
//	}
package pkg
