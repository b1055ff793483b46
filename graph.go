package main

import (
	"fmt"
	"strings"
)

// ShapeKind selects how a node is drawn, both on the terminal grid and in
// the PNG exporter.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeDiamond   ShapeKind = "diamond"
	ShapeArrow     ShapeKind = "arrow"
)

// ParseShapeKind maps a stored kind name back to a ShapeKind.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch ShapeKind(s) {
	case ShapeRectangle, ShapeCircle, ShapeDiamond, ShapeArrow:
		return ShapeKind(s), nil
	}
	return "", fmt.Errorf("unknown shape kind %q", s)
}

// Handle names an attachment point on a node's boundary.
type Handle string

const (
	HandleLeft   Handle = "left"
	HandleRight  Handle = "right"
	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
)

// ParseHandle maps a stored handle name back to a Handle.
func ParseHandle(s string) (Handle, error) {
	switch Handle(s) {
	case HandleLeft, HandleRight, HandleTop, HandleBottom:
		return Handle(s), nil
	}
	return "", fmt.Errorf("unknown handle %q", s)
}

// Node is one shape on the canvas. Positions are world coordinates and may
// be negative; panning brings off-screen nodes into view. Width/Height are
// measured in character cells.
type Node struct {
	ID     string
	Kind   ShapeKind
	X, Y   float64
	Width  int
	Height int
	Label  string
	Color  int // palette index, -1 for the terminal default
}

// Lines splits the label for cell rendering.
func (n Node) Lines() []string {
	return strings.Split(n.Label, "\n")
}

// FitSize returns the node with Width/Height grown to fit the label,
// honoring the global minimums.
func (n Node) FitSize() Node {
	lines := n.Lines()
	w := minNodeWidth
	for _, line := range lines {
		if len(line)+2 > w {
			w = len(line) + 2
		}
	}
	h := len(lines) + 2
	if h < minNodeHeight {
		h = minNodeHeight
	}
	if n.Width < w {
		n.Width = w
	}
	if n.Height < h {
		n.Height = h
	}
	return n
}

// Edge connects two nodes at named handles. Stroke is a palette index and
// ArrowFrom/ArrowTo control the end markers.
type Edge struct {
	ID           string
	Source       string
	Target       string
	SourceHandle Handle
	TargetHandle Handle
	Stroke       int
	ArrowFrom    bool
	ArrowTo      bool
}

// Graph is the diagram state: ordered node and edge sequences. Order is
// render z-order only. A Graph is treated as an immutable value: every
// mutation goes through the applier functions in mutate.go, which return a
// fresh Graph and never write through a received one. That convention is
// what lets the history stack keep snapshots without deep-copying on every
// edit.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// NodeByID returns the index of the node with the given id, or -1.
func (g Graph) NodeByID(id string) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// EdgeByID returns the index of the edge with the given id, or -1.
func (g Graph) EdgeByID(id string) int {
	for i := range g.Edges {
		if g.Edges[i].ID == id {
			return i
		}
	}
	return -1
}

// HasNode reports whether a node with the given id exists.
func (g Graph) HasNode(id string) bool {
	return g.NodeByID(id) >= 0
}

// Clone returns a structurally independent copy.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}

// Validate checks the referential invariant: every edge endpoint must name
// a node present in the same graph.
func (g Graph) Validate() error {
	for _, e := range g.Edges {
		if !g.HasNode(e.Source) {
			return fmt.Errorf("%w: edge %s references missing source %s", ErrMalformedDiagram, e.ID, e.Source)
		}
		if !g.HasNode(e.Target) {
			return fmt.Errorf("%w: edge %s references missing target %s", ErrMalformedDiagram, e.ID, e.Target)
		}
	}
	return nil
}

// Bounds returns the world-coordinate bounding box of all nodes, in cells.
// ok is false for an empty graph.
func (g Graph) Bounds() (minX, minY, maxX, maxY int, ok bool) {
	for i, n := range g.Nodes {
		x, y := int(n.X), int(n.Y)
		if i == 0 {
			minX, minY = x, y
			maxX, maxY = x+n.Width, y+n.Height
			continue
		}
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x+n.Width > maxX {
			maxX = x + n.Width
		}
		if y+n.Height > maxY {
			maxY = y + n.Height
		}
	}
	return minX, minY, maxX, maxY, len(g.Nodes) > 0
}
