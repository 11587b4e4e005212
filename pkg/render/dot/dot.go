// Package dot draws a reduced world as a Graphviz diagram.
//
// Items point at the slots they unlock. A slot with several alternatives
// gets one small junction per multi-item alternative, so that an AND of
// items reads as a fan-in and an OR as several arrows. Slots reachable
// from the start without any item hang off a "start" node.
//
//	src := dot.ToDOT(w.Graph, ll, dot.Options{Assigned: true})
//	svg, err := dot.RenderSVG(ctx, src)
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

// Formats that [Render] accepts.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Options configures diagram generation.
type Options struct {
	// Assigned adds the item placed in each slot to its label.
	Assigned bool
}

const startNode = "start"

// ToDOT converts ll to DOT source. g must be the graph ll was integrated
// from; it supplies names and, with Options.Assigned, slot contents.
func ToDOT(g *world.Graph, ll *logic.LocationList, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14];\n")
	fmt.Fprintf(&buf, "  %q [shape=doublecircle, label=%q];\n", startNode, startNode)
	buf.WriteString("\n")

	for idx := range ll.NumItems() {
		it := ll.Item(idx)
		shape := "ellipse"
		if !it.Placeable {
			shape = "diamond"
		}
		fmt.Fprintf(&buf, "  %q [shape=%s];\n", g.Name(it.UID), shape)
	}

	unreachable := make(map[int]bool)
	for _, loc := range ll.Audit().Unreachable {
		unreachable[loc] = true
	}
	for loc := range ll.NumLocations() {
		uid := ll.Location(loc)
		attrs := []string{"shape=box", fmt.Sprintf("label=%q", slotLabel(g, uid, opts))}
		switch {
		case loc == ll.Win():
			attrs = append(attrs, `style="rounded,filled"`, "fillcolor=gold")
		case unreachable[loc]:
			attrs = append(attrs, `style="rounded,dashed"`, "fontcolor=grey")
		default:
			attrs = append(attrs, `style="rounded"`)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", g.Name(uid), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for loc := range ll.NumLocations() {
		slot := g.Name(ll.Location(loc))
		for alt, route := range ll.Routes(loc) {
			items := route.Slice()
			switch len(items) {
			case 0:
				fmt.Fprintf(&buf, "  %q -> %q;\n", startNode, slot)
			case 1:
				fmt.Fprintf(&buf, "  %q -> %q;\n", g.Name(ll.Item(items[0]).UID), slot)
			default:
				junction := fmt.Sprintf("%s#%d", slot, alt)
				fmt.Fprintf(&buf, "  %q [shape=point];\n", junction)
				for _, item := range items {
					fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none];\n", g.Name(ll.Item(item).UID), junction)
				}
				fmt.Fprintf(&buf, "  %q -> %q;\n", junction, slot)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func slotLabel(g *world.Graph, uid world.ID, opts Options) string {
	name := g.Name(uid)
	if !opts.Assigned {
		return name
	}
	n, _ := g.Node(uid)
	s, ok := n.(*world.Slot)
	if !ok {
		return name
	}
	if item, ok := s.Item(); ok {
		return name + "\n" + g.Name(item)
	}
	return name
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render returns the diagram in format, one of [FormatDOT] or [FormatSVG].
func Render(ctx context.Context, g *world.Graph, ll *logic.LocationList, format string, opts Options) ([]byte, error) {
	src := ToDOT(g, ll, opts)
	switch format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return RenderSVG(ctx, src)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
