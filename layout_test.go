package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func connectPair(t *testing.T, g Graph, from, to string) Graph {
	t.Helper()
	next, err := Connect(g, from, HandleRight, to, HandleLeft)
	require.NoError(t, err)
	return next
}

func TestLayoutSubtreePlacesChildrenRightOfParent(t *testing.T) {
	t.Parallel()

	g, root := AddNode(Graph{}, ShapeRectangle, 0, 0, "root")
	g, c1 := AddNode(g, ShapeRectangle, 0, 0, "first")
	g, c2 := AddNode(g, ShapeRectangle, 0, 0, "second")
	g = connectPair(t, g, root, c1)
	g = connectPair(t, g, root, c2)

	out := LayoutSubtree(g, root)

	rootNode := out.Nodes[out.NodeByID(root)]
	wantX := rootNode.X + float64(rootNode.Width+layoutGapX)
	for _, id := range []string{c1, c2} {
		n := out.Nodes[out.NodeByID(id)]
		require.Equal(t, wantX, n.X, "children share one column right of the parent")
	}

	first := out.Nodes[out.NodeByID(c1)]
	second := out.Nodes[out.NodeByID(c2)]
	require.GreaterOrEqual(t, second.Y, first.Y+float64(first.Height)+float64(layoutGapY),
		"siblings must not overlap")

	// Stack is centered on the parent's midline.
	mid := rootNode.Y + float64(rootNode.Height)/2
	top := first.Y
	bottom := second.Y + float64(second.Height)
	require.InDelta(t, mid, (top+bottom)/2, 0.5)
}

func TestLayoutSubtreeIsPureAndScoped(t *testing.T) {
	t.Parallel()

	g, root := AddNode(Graph{}, ShapeRectangle, 0, 0, "root")
	g, child := AddNode(g, ShapeRectangle, 100, 100, "child")
	g, loner := AddNode(g, ShapeCircle, 50, 50, "bystander")
	g = connectPair(t, g, root, child)

	out := LayoutSubtree(g, root)

	require.Equal(t, 100.0, g.Nodes[g.NodeByID(child)].X, "input graph must stay untouched")

	moved := out.Nodes[out.NodeByID(loner)]
	require.Equal(t, 50.0, moved.X, "nodes outside the subtree keep their position")
	require.Equal(t, 50.0, moved.Y)
}

func TestLayoutSubtreeUnknownRootIsNoOp(t *testing.T) {
	t.Parallel()

	g, _ := AddNode(Graph{}, ShapeRectangle, 0, 0, "a")
	require.Equal(t, g, LayoutSubtree(g, "ghost"))
}

func TestLayoutSubtreeTerminatesOnCycles(t *testing.T) {
	t.Parallel()

	g, a := AddNode(Graph{}, ShapeRectangle, 0, 0, "a")
	g, b := AddNode(g, ShapeRectangle, 0, 0, "b")
	g, c := AddNode(g, ShapeRectangle, 0, 0, "c")
	g = connectPair(t, g, a, b)
	g = connectPair(t, g, b, c)
	g = connectPair(t, g, c, a)

	var err error
	g, err = Connect(g, a, HandleTop, a, HandleBottom) // self-loop for good measure
	require.NoError(t, err)

	out := LayoutSubtree(g, a)

	// Each hop moves one column to the right; the back edge is ignored.
	ax := out.Nodes[out.NodeByID(a)].X
	bx := out.Nodes[out.NodeByID(b)].X
	cx := out.Nodes[out.NodeByID(c)].X
	require.Greater(t, bx, ax)
	require.Greater(t, cx, bx)
}
