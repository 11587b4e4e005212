package worldfile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrUnknownKey is returned by [Parse] for keys that no table defines.
	ErrUnknownKey = errors.New("unknown key")

	// ErrDuplicateName is returned by [File.Build] when two nodes share a name.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownName is returned by [File.Build] for a reference to a name
	// that is not defined.
	ErrUnknownName = errors.New("unknown name")

	// ErrUnknownInventory is returned by [File.Build] for an unrecognized
	// item inventory class.
	ErrUnknownInventory = errors.New("unknown inventory class")
)

// File is the decoded form of a world file.
type File struct {
	// Granted names an item held from the start.
	Granted string `toml:"granted"`

	Options     []OptionDef     `toml:"option"`
	Triggers    []TriggerDef    `toml:"trigger"`
	Conditions  []ConditionDef  `toml:"condition"`
	Trackers    []TrackerDef    `toml:"tracker"`
	Bosses      []BossDef       `toml:"boss"`
	Locations   []LocationDef   `toml:"location"`
	Connections []ConnectionDef `toml:"connection"`
	Areas       []AreaDef       `toml:"area"`
	Items       []ItemDef       `toml:"item"`
	Slots       []SlotDef       `toml:"slot"`
}

// Requirement is a list of alternatives, each a list of names that must all
// be reached. A missing requirement means the node is always reachable.
type Requirement [][]string

// OptionDef is an [[option]] table.
type OptionDef struct {
	Name    string `toml:"name"`
	Enabled bool   `toml:"enabled"`
}

// TriggerDef is a [[trigger]] table.
type TriggerDef struct {
	Name     string      `toml:"name"`
	Requires Requirement `toml:"requires"`
}

// ConditionDef is a [[condition]] table. TrackerRequires replaces
// Requires in tracker mode.
type ConditionDef struct {
	Name            string      `toml:"name"`
	Requires        Requirement `toml:"requires"`
	TrackerRequires Requirement `toml:"tracker_requires"`
}

// TrackerDef is a [[tracker]] table.
type TrackerDef struct {
	Name            string      `toml:"name"`
	Requires        Requirement `toml:"requires"`
	TrackerRequires Requirement `toml:"tracker_requires"`
}

// BossDef is a [[boss]] table.
type BossDef struct {
	Name     string      `toml:"name"`
	Location string      `toml:"location"`
	Requires Requirement `toml:"requires"`
}

// LocationDef is a [[location]] table.
type LocationDef struct {
	Name  string `toml:"name"`
	Start bool   `toml:"start"`
	Boss  string `toml:"boss"`
}

// ConnectionDef is a [[connection]] table.
type ConnectionDef struct {
	// Name defaults to "from->to".
	Name          string   `toml:"name"`
	From          string   `toml:"from"`
	To            string   `toml:"to"`
	Requires      []string `toml:"requires"`
	Bidirectional bool     `toml:"bidirectional"`
}

// AreaDef is an [[area]] table.
type AreaDef struct {
	Name      string   `toml:"name"`
	Locations []string `toml:"locations"`
}

// ItemDef is an [[item]] table.
type ItemDef struct {
	Name string `toml:"name"`
	// Weight defaults to 1.
	Weight int `toml:"weight"`
	// Inventory is one of "normal" (default), "key", "consumable", "mimic".
	Inventory string `toml:"inventory"`
}

// SlotDef is a [[slot]] table.
type SlotDef struct {
	Name     string      `toml:"name"`
	Location string      `toml:"location"`
	Requires Requirement `toml:"requires"`
	Vanilla  string      `toml:"vanilla"`
	Fixed    bool        `toml:"fixed"`
	Chest    bool        `toml:"chest"`
	BossDrop bool        `toml:"boss_drop"`
	Mimic    bool        `toml:"mimic"`
	Win      bool        `toml:"win"`
}

// Parse decodes a world file. Keys that do not belong to any table are
// rejected so that typos do not silently drop requirements.
func Parse(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return &f, nil
}

// ReadFile reads and parses the world file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
