// Package fill places items into locations so that the result is always
// completable.
//
// # Assumed Fill
//
// [AssumedFill] starts by assuming every item is held. It then takes items
// one at a time in the order chosen by a [Strategy], stops assuming that
// item is held, and seats it in a location that is still reachable without
// it. Because every item is seated somewhere reachable without itself while
// all not-yet-seated items are still assumed, the final layout can be
// collected by working backwards through the placement order.
//
// A single item without a legal location aborts the attempt. The caller
// retries with a fresh random stream; [AssumedFill] never retries itself.
//
// # Randomness
//
// All randomness flows through a [Random]. [NewRandom] returns a PCG-backed
// source, so a fixed seed and a fixed [logic.LocationList] always produce
// the same [Filling].
//
// [logic.LocationList]: github.com/matzehuels/itemshuffle/pkg/logic.LocationList
package fill
