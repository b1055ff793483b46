package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseShapeKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []ShapeKind{ShapeRectangle, ShapeCircle, ShapeDiamond, ShapeArrow} {
		got, err := ParseShapeKind(string(kind))
		require.NoError(t, err)
		require.Equal(t, kind, got)
	}
	_, err := ParseShapeKind("hexagon")
	require.Error(t, err)
}

func TestParseHandle(t *testing.T) {
	t.Parallel()

	for _, h := range []Handle{HandleLeft, HandleRight, HandleTop, HandleBottom} {
		got, err := ParseHandle(string(h))
		require.NoError(t, err)
		require.Equal(t, h, got)
	}
	_, err := ParseHandle("center")
	require.Error(t, err)
}

func TestNodeFitSize(t *testing.T) {
	t.Parallel()

	n := Node{Label: ""}.FitSize()
	require.Equal(t, minNodeWidth, n.Width)
	require.Equal(t, minNodeHeight, n.Height)

	long := strings.Repeat("x", 30)
	n = Node{Label: long}.FitSize()
	require.Equal(t, len(long)+2, n.Width)

	n = Node{Label: "a\nb\nc\nd"}.FitSize()
	require.Equal(t, 6, n.Height, "four label lines plus the border")

	// FitSize only grows; a node resized larger by hand keeps its size.
	n = Node{Label: "wee", Width: 40, Height: 12}.FitSize()
	require.Equal(t, 40, n.Width)
	require.Equal(t, 12, n.Height)
}

func TestGraphLookups(t *testing.T) {
	t.Parallel()

	g, a := AddNode(Graph{}, ShapeRectangle, 0, 0, "a")
	g, err := Connect(g, a, HandleTop, a, HandleBottom)
	require.NoError(t, err)

	require.Equal(t, 0, g.NodeByID(a))
	require.Equal(t, -1, g.NodeByID("ghost"))
	require.True(t, g.HasNode(a))
	require.False(t, g.HasNode("ghost"))
	require.Equal(t, 0, g.EdgeByID(g.Edges[0].ID))
	require.Equal(t, -1, g.EdgeByID("ghost"))
}

func TestGraphCloneIsIndependent(t *testing.T) {
	t.Parallel()

	g, a := AddNode(Graph{}, ShapeRectangle, 0, 0, "original")
	clone := g.Clone()
	clone.Nodes[0].Label = "mutated"
	clone.Edges = append(clone.Edges, Edge{ID: "e", Source: a, Target: a})

	require.Equal(t, "original", g.Nodes[0].Label)
	require.Empty(t, g.Edges)
}

func TestGraphValidate(t *testing.T) {
	t.Parallel()

	g, a := AddNode(Graph{}, ShapeRectangle, 0, 0, "a")
	g, b := AddNode(g, ShapeCircle, 20, 0, "b")
	g, err := Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	bad := g.Clone()
	bad.Edges[0].Target = "gone"
	require.ErrorIs(t, bad.Validate(), ErrMalformedDiagram)

	bad = g.Clone()
	bad.Edges[0].Source = "gone"
	require.ErrorIs(t, bad.Validate(), ErrMalformedDiagram)
}

func TestGraphBounds(t *testing.T) {
	t.Parallel()

	_, _, _, _, ok := Graph{}.Bounds()
	require.False(t, ok)

	g, _ := AddNode(Graph{}, ShapeRectangle, -5, -2, "a") // 8x3 after fit
	g, _ = AddNode(g, ShapeCircle, 10, 6, "b")            // 8x3 after fit

	minX, minY, maxX, maxY, ok := g.Bounds()
	require.True(t, ok)
	require.Equal(t, -5, minX)
	require.Equal(t, -2, minY)
	require.Equal(t, 18, maxX)
	require.Equal(t, 9, maxY)
}
