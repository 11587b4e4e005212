// Package logic holds the reduced Location↔Item structure and the
// reachability engine that runs over it.
//
// # Index Spaces
//
// A [LocationList] maps slot IDs to dense location indices and item IDs to
// dense item indices. Both maps are filled lazily, in first-seen order, and
// are append-only: an index once handed out never changes. Every location has
// a list of routes, each a [bitset.Set] of item indices; holding all items of
// any one route makes the location reachable.
//
// # Reachability
//
// [LocationList.Traverse] computes the fixpoint of forward reachability from
// a set of held items. When a [Filling] is given, reaching a filled location
// grants its item, which can in turn unlock further locations. An inverted
// index (unlocks) limits re-checks to the locations that mention the newly
// granted item.
//
// The structure is read-only once built and may be shared by concurrent
// placement attempts.
//
// [bitset.Set]: github.com/matzehuels/itemshuffle/pkg/bitset.Set
package logic
