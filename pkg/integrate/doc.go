// Package integrate reduces a full world graph to a [logic.LocationList].
//
// The reduction runs the nodes of a [world.Graph] through a
// [resolve.Resolver] in a fixed order of categories. Each category is fed and
// then finalized, so that every later route naming one of its nodes is
// expanded in place. What survives is a list of alternatives per slot
// expressed purely in item IDs (and, in tracker mode, tracker IDs).
//
// # Phases
//
//  1. Validate the graph and partition it by kind. Start locations get an
//     unconditional route.
//  2. The granted item, if any, gets an unconditional route and is finalized.
//  3. Options, tracker nodes (unless in tracker mode) and triggers are fed
//     and finalized, in that order.
//  4. A breadth-first walk over locations and connections derives location
//     routes until no new route appears. Connection requirements and the
//     requirements of a boss guarding the source location are folded in.
//  5. Conditions are fed and finalized.
//  6. Every other node except items and tracker nodes is finalized.
//     Locations are finalized without feeding: their routes come from phase 4.
//  7. Each slot's expanded alternatives become its routes in the list, and
//     every item is registered as a pool item.
//
// Phase order matters. A node may only be substituted once it is finalized,
// and [resolve.Resolver.Expand] substitutes late-finalized nodes when slots
// are read back, so forward references between categories are allowed.
//
// # Unreachable Slots
//
// A slot whose alternatives all vanish is kept with zero routes. It is not
// an integration error; use [logic.LocationList.Audit] to find such slots.
//
// [logic.LocationList]: github.com/matzehuels/itemshuffle/pkg/logic.LocationList
// [logic.LocationList.Audit]: github.com/matzehuels/itemshuffle/pkg/logic.LocationList.Audit
// [resolve.Resolver]: github.com/matzehuels/itemshuffle/pkg/resolve.Resolver
// [resolve.Resolver.Expand]: github.com/matzehuels/itemshuffle/pkg/resolve.Resolver.Expand
package integrate
