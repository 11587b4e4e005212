package world

import (
	"errors"
	"fmt"
)

var (
	// ErrNilNode is returned by [Graph.Add] for a nil node.
	ErrNilNode = errors.New("nil node")

	// ErrAlreadyRegistered is returned by [Graph.Add] when the node already
	// has an ID, in this graph or another one.
	ErrAlreadyRegistered = errors.New("node already registered")

	// ErrMissingTarget is returned by [Graph.Validate] when an edge has no
	// target. This is always a graph construction bug.
	ErrMissingTarget = errors.New("edge has no target")

	// ErrUnknownNode is returned by [Graph.Validate] when a node references
	// an ID that was never registered.
	ErrUnknownNode = errors.New("reference to unknown node")

	// ErrWrongKind is returned by [Graph.Validate] when a reference points
	// at a node of the wrong kind (e.g. a connection ending at an item).
	ErrWrongKind = errors.New("reference to node of wrong kind")

	// ErrInvalidWeight is returned by [Graph.Validate] for items with a
	// shuffle weight below 1.
	ErrInvalidWeight = errors.New("item weight must be at least 1")
)

// Graph is the registry that owns node IDs.
type Graph struct {
	nodes []Node
}

// New creates an empty graph.
func New() *Graph { return &Graph{} }

// Add registers n and returns its ID. IDs are handed out in registration
// order starting at 0.
func (g *Graph) Add(n Node) (ID, error) {
	if n == nil {
		return None, ErrNilNode
	}
	id := ID(len(g.nodes))
	if !n.bind(id) {
		return None, fmt.Errorf("%w: %s %q", ErrAlreadyRegistered, n.Kind(), n.Name())
	}
	g.nodes = append(g.nodes, n)
	return id, nil
}

// MustAdd is like [Graph.Add] but panics on error. It is intended for
// programmatic graph construction where a failure is a bug.
func (g *Graph) MustAdd(n Node) ID {
	id, err := g.Add(n)
	if err != nil {
		panic(err)
	}
	return id
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id ID) (Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[id], true
}

// Nodes returns every node in registration order.
// The slice is shared; callers must not modify it.
func (g *Graph) Nodes() []Node { return g.nodes }

// Len returns the number of registered nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// ByKind returns the nodes of kind k in registration order.
func (g *Graph) ByKind(k Kind) []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Kind() == k {
			out = append(out, n)
		}
	}
	return out
}

// Slots returns every slot in registration order.
func (g *Graph) Slots() []*Slot {
	var out []*Slot
	for _, n := range g.nodes {
		if s, ok := n.(*Slot); ok {
			out = append(out, s)
		}
	}
	return out
}

// Items returns every item in registration order.
func (g *Graph) Items() []*ItemGet {
	var out []*ItemGet
	for _, n := range g.nodes {
		if it, ok := n.(*ItemGet); ok {
			out = append(out, it)
		}
	}
	return out
}

// Name returns the label of id, or a placeholder for unknown IDs.
func (g *Graph) Name(id ID) string {
	if n, ok := g.Node(id); ok {
		return n.Name()
	}
	return fmt.Sprintf("#%d", int(id))
}

// Validate checks that every reference names a registered node of the
// expected kind. It returns the first problem found.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if err := g.validateNode(n); err != nil {
			return fmt.Errorf("%s %q: %w", n.Kind(), n.Name(), err)
		}
	}
	return nil
}

func (g *Graph) validateNode(n Node) error {
	for _, mode := range []Mode{ModeNormal, ModeTracker} {
		for _, e := range n.Edges(mode) {
			if e.Target == None {
				return ErrMissingTarget
			}
			if err := g.expect(e.Target); err != nil {
				return err
			}
			for _, d := range e.Deps {
				if err := g.expect(d); err != nil {
					return err
				}
			}
		}
	}

	switch n := n.(type) {
	case *Slot:
		if n.Location != None {
			if err := g.expect(n.Location, KindLocation); err != nil {
				return fmt.Errorf("location: %w", err)
			}
		}
		if n.Vanilla != None {
			if err := g.expect(n.Vanilla, KindItemGet); err != nil {
				return fmt.Errorf("vanilla: %w", err)
			}
		}
	case *ItemGet:
		if n.Weight < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidWeight, n.Weight)
		}
	case *Connection:
		if err := g.expect(n.From, KindLocation); err != nil {
			return fmt.Errorf("from: %w", err)
		}
		if err := g.expect(n.To, KindLocation); err != nil {
			return fmt.Errorf("to: %w", err)
		}
	case *Location:
		if n.Boss != None {
			if err := g.expect(n.Boss, KindBoss); err != nil {
				return fmt.Errorf("boss: %w", err)
			}
		}
	case *Boss:
		if n.Location != None {
			if err := g.expect(n.Location, KindLocation); err != nil {
				return fmt.Errorf("location: %w", err)
			}
		}
	case *Area:
		for _, loc := range n.Locations {
			if err := g.expect(loc, KindLocation); err != nil {
				return err
			}
		}
	}
	return nil
}

// expect checks that id is registered and, if kinds are given, is one of them.
func (g *Graph) expect(id ID, kinds ...Kind) error {
	n, ok := g.Node(id)
	if !ok {
		return fmt.Errorf("%w: #%d", ErrUnknownNode, int(id))
	}
	if len(kinds) == 0 {
		return nil
	}
	for _, k := range kinds {
		if n.Kind() == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is a %s, want %s", ErrWrongKind, n.Name(), n.Kind(), kinds[0])
}
