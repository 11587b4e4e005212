// Package worldfile loads world descriptions written in TOML.
//
// A world file has one array of tables per node kind. Nodes refer to each
// other by name, and names are unique across the whole file:
//
//	granted = "boots"
//
//	[[item]]
//	name = "sword"
//	weight = 3
//
//	[[location]]
//	name = "courtyard"
//	start = true
//
//	[[slot]]
//	name = "courtyard_chest"
//	location = "courtyard"
//	requires = [["sword"], ["boots", "lamp"]]
//
// A requirement is a list of alternatives; each alternative is a list of
// names that must all be reachable. Leaving out requires on a trigger,
// condition, tracker or boss makes it unconditional. On a slot it means
// reaching its location is enough.
//
// [File.Build] turns a decoded file into a validated [world.Graph], and
// [Fits] derives placement rules from slot flags and item inventory classes.
// [Example] holds a complete sample world.
//
// [world.Graph]: github.com/matzehuels/itemshuffle/pkg/world.Graph
package worldfile

import _ "embed"

// Example is a small sample world.
//
//go:embed examples/castle.toml
var Example []byte
