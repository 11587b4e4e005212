// Package world provides the graph primitives consumed by the integrator.
//
// # Overview
//
// A world is a set of nodes registered in a [Graph]. Registration hands out a
// permanent integer [ID] in registration order, starting at 0. Nodes never
// store a pointer back to their graph; every cross reference (a slot's
// location, a connection's endpoints, a requirement list) is an ID into the
// same arena.
//
// # Node Kinds
//
// [Node] is a closed sum type. The only implementations are the pointer types
// of this package:
//
//   - [Slot]: a placement location holding exactly one item
//   - [ItemGet]: an obtainable item
//   - [Option]: a world toggle
//   - [Trigger]: a one-shot event
//   - [Condition]: a branching precondition
//   - [Boss]: a boss gate guarding a location
//   - [Connection]: a map edge between two locations
//   - [Location]: a physical place
//   - [Area]: a grouping of locations
//   - [TrackerNode]: a node that is only kept when tracking a live game
//
// Only [Slot] and [ItemGet] (and [TrackerNode] in tracker mode) survive
// integration; everything else is eliminated.
//
// # Edges
//
// An [Edge] is one AND-clause: its target is reachable once every dependency
// is. Several edges on the same target form an OR. Requirements on nodes are
// written as a list of alternatives ([][]ID), so
//
//	trigger.Requires = [][]world.ID{{sword, flight}, {teleport}}
//
// reads "(sword and flight) or teleport". A nil requirement list means the
// node can never be reached; [Always] is the single empty alternative.
//
// # Basic Usage
//
//	g := world.New()
//	start := g.MustAdd(world.NewLocation("start", true))
//	sword := g.MustAdd(world.NewItemGet("sword", 1))
//	chest := world.NewSlot("start-chest", start)
//	chest.Vanilla = sword
//	g.MustAdd(chest)
//	if err := g.Validate(); err != nil {
//	    return err
//	}
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. A fully built graph
// may be read from several goroutines.
package world
