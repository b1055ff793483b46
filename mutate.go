package main

import "github.com/google/uuid"

// The mutation applier: pure transformations from one Graph value to the
// next. Nothing here writes through the input graph; the previous value
// stays valid as a history snapshot.

// NodeChangeOp enumerates the structural node changes delivered by the UI.
type NodeChangeOp int

const (
	NodeMove NodeChangeOp = iota
	NodeResize
	NodeRemove
)

// NodeChange describes one geometry or removal change for a node.
type NodeChange struct {
	ID            string
	Op            NodeChangeOp
	X, Y          float64 // NodeMove
	Width, Height int     // NodeResize
}

// EdgeChangeOp enumerates the structural edge changes delivered by the UI.
type EdgeChangeOp int

const (
	EdgeRemove EdgeChangeOp = iota
	EdgeSetStroke
	EdgeSetArrows
)

// EdgeChange describes one change for an edge.
type EdgeChange struct {
	ID                 string
	Op                 EdgeChangeOp
	Stroke             int  // EdgeSetStroke
	ArrowFrom, ArrowTo bool // EdgeSetArrows
}

// ApplyNodeChanges applies a batch of node changes. Changes referencing
// unknown ids are ignored: a stale drag event arriving after a delete is
// expected and must not fail.
func ApplyNodeChanges(g Graph, changes []NodeChange) Graph {
	out := g.Clone()
	for _, ch := range changes {
		i := out.NodeByID(ch.ID)
		if i < 0 {
			continue
		}
		switch ch.Op {
		case NodeMove:
			out.Nodes[i].X = ch.X
			out.Nodes[i].Y = ch.Y
		case NodeResize:
			w, h := ch.Width, ch.Height
			if w < minNodeWidth {
				w = minNodeWidth
			}
			if h < minNodeHeight {
				h = minNodeHeight
			}
			out.Nodes[i].Width = w
			out.Nodes[i].Height = h
		case NodeRemove:
			out = removeNodeAt(out, i)
		}
	}
	return out
}

// ApplyEdgeChanges applies a batch of edge changes, ignoring unknown ids.
func ApplyEdgeChanges(g Graph, changes []EdgeChange) Graph {
	out := g.Clone()
	for _, ch := range changes {
		i := out.EdgeByID(ch.ID)
		if i < 0 {
			continue
		}
		switch ch.Op {
		case EdgeRemove:
			out.Edges = append(out.Edges[:i:i], out.Edges[i+1:]...)
		case EdgeSetStroke:
			out.Edges[i].Stroke = ch.Stroke
		case EdgeSetArrows:
			out.Edges[i].ArrowFrom = ch.ArrowFrom
			out.Edges[i].ArrowTo = ch.ArrowTo
		}
	}
	return out
}

// Connect appends a new edge between two handles. Both endpoints must exist;
// otherwise ErrInvalidConnection is returned and the input graph is handed
// back unchanged. Self-loops and parallel edges between the same handles are
// allowed.
func Connect(g Graph, sourceID string, sourceHandle Handle, targetID string, targetHandle Handle) (Graph, error) {
	if !g.HasNode(sourceID) || !g.HasNode(targetID) {
		return g, ErrInvalidConnection
	}
	out := g.Clone()
	out.Edges = append(out.Edges, Edge{
		ID:           uuid.NewString(),
		Source:       sourceID,
		Target:       targetID,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
		Stroke:       -1,
		ArrowTo:      true,
	})
	return out, nil
}

// AddNode appends a new node of the given kind at (x, y), sized to fit its
// label. The fresh id is returned alongside the new graph.
func AddNode(g Graph, kind ShapeKind, x, y float64, label string) (Graph, string) {
	n := Node{
		ID:    uuid.NewString(),
		Kind:  kind,
		X:     x,
		Y:     y,
		Label: label,
		Color: -1,
	}.FitSize()
	out := g.Clone()
	out.Nodes = append(out.Nodes, n)
	return out, n.ID
}

// Relabel replaces a node's label verbatim, the empty string included, and
// regrows the node to fit. Unknown ids are a silent no-op.
func Relabel(g Graph, nodeID, label string) Graph {
	i := g.NodeByID(nodeID)
	if i < 0 {
		return g
	}
	out := g.Clone()
	out.Nodes[i].Label = label
	out.Nodes[i] = out.Nodes[i].FitSize()
	return out
}

// SetNodeColor cycles presentation color; unknown ids are a silent no-op.
func SetNodeColor(g Graph, nodeID string, color int) Graph {
	i := g.NodeByID(nodeID)
	if i < 0 {
		return g
	}
	out := g.Clone()
	out.Nodes[i].Color = color
	return out
}

// RemoveNode deletes a node and cascade-deletes every edge referencing it,
// preserving the referential invariant.
func RemoveNode(g Graph, nodeID string) Graph {
	i := g.NodeByID(nodeID)
	if i < 0 {
		return g
	}
	return removeNodeAt(g.Clone(), i)
}

// RemoveEdge deletes an edge; unknown ids are a silent no-op.
func RemoveEdge(g Graph, edgeID string) Graph {
	i := g.EdgeByID(edgeID)
	if i < 0 {
		return g
	}
	out := g.Clone()
	out.Edges = append(out.Edges[:i:i], out.Edges[i+1:]...)
	return out
}

func removeNodeAt(g Graph, i int) Graph {
	id := g.Nodes[i].ID
	g.Nodes = append(g.Nodes[:i:i], g.Nodes[i+1:]...)
	kept := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	return g
}
