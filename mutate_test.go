package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoNodeGraph(t *testing.T) (Graph, string, string) {
	t.Helper()
	g, a := AddNode(Graph{}, ShapeRectangle, 0, 0, "alpha")
	g, b := AddNode(g, ShapeCircle, 20, 0, "beta")
	return g, a, b
}

func TestConnectCreatesEdge(t *testing.T) {
	t.Parallel()

	g, a, b := twoNodeGraph(t)
	next, err := Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)
	require.Len(t, next.Edges, 1)

	e := next.Edges[0]
	require.NotEmpty(t, e.ID)
	require.Equal(t, a, e.Source)
	require.Equal(t, b, e.Target)
	require.Equal(t, HandleRight, e.SourceHandle)
	require.Equal(t, HandleLeft, e.TargetHandle)
	require.True(t, e.ArrowTo)
	require.False(t, e.ArrowFrom)

	require.Empty(t, g.Edges, "input graph must stay untouched")
	require.NoError(t, next.Validate())
}

func TestConnectRejectsMissingEndpoints(t *testing.T) {
	t.Parallel()

	g, a, _ := twoNodeGraph(t)

	_, err := Connect(g, a, HandleRight, "ghost", HandleLeft)
	require.ErrorIs(t, err, ErrInvalidConnection)

	_, err = Connect(g, "ghost", HandleRight, a, HandleLeft)
	require.ErrorIs(t, err, ErrInvalidConnection)

	_, err = Connect(Graph{}, "ghost", HandleTop, "phantom", HandleBottom)
	require.ErrorIs(t, err, ErrInvalidConnection)
}

func TestConnectAllowsSelfLoopsAndParallelEdges(t *testing.T) {
	t.Parallel()

	g, a, b := twoNodeGraph(t)

	g, err := Connect(g, a, HandleTop, a, HandleBottom)
	require.NoError(t, err)

	g, err = Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)
	g, err = Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)

	require.Len(t, g.Edges, 3)
	require.NotEqual(t, g.Edges[1].ID, g.Edges[2].ID, "parallel edges get distinct ids")
	require.NoError(t, g.Validate())
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	t.Parallel()

	g, a, b := twoNodeGraph(t)
	g, c := AddNode(g, ShapeDiamond, 40, 0, "gamma")

	g, err := Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)
	g, err = Connect(g, b, HandleRight, c, HandleLeft)
	require.NoError(t, err)
	g, err = Connect(g, a, HandleBottom, c, HandleBottom)
	require.NoError(t, err)

	next := RemoveNode(g, b)
	require.Equal(t, -1, next.NodeByID(b))
	require.Len(t, next.Edges, 1, "both edges touching the node must go with it")
	require.Equal(t, a, next.Edges[0].Source)
	require.Equal(t, c, next.Edges[0].Target)
	require.NoError(t, next.Validate())

	require.Len(t, g.Edges, 3, "input graph must stay untouched")
}

func TestRemoveEdgeLeavesNodes(t *testing.T) {
	t.Parallel()

	g, a, b := twoNodeGraph(t)
	g, err := Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)

	next := RemoveEdge(g, g.Edges[0].ID)
	require.Empty(t, next.Edges)
	require.Len(t, next.Nodes, 2)

	// Unknown id: silent no-op.
	require.Equal(t, next, RemoveEdge(next, "ghost"))
}

func TestRelabelToleratesUnknownAndEmpty(t *testing.T) {
	t.Parallel()

	g, a, _ := twoNodeGraph(t)

	// Unknown id leaves the graph untouched rather than failing, covering
	// edits racing a concurrent delete.
	require.Equal(t, g, Relabel(g, "ghost", "anything"))

	next := Relabel(g, a, "")
	i := next.NodeByID(a)
	require.Equal(t, "", next.Nodes[i].Label)

	next = Relabel(g, a, "a considerably longer label")
	i = next.NodeByID(a)
	require.Equal(t, "a considerably longer label", next.Nodes[i].Label)
	require.GreaterOrEqual(t, next.Nodes[i].Width, len("a considerably longer label")+2,
		"relabel must regrow the node to fit")
}

func TestApplyNodeChangesIgnoresUnknownIDs(t *testing.T) {
	t.Parallel()

	g, a, _ := twoNodeGraph(t)
	next := ApplyNodeChanges(g, []NodeChange{
		{ID: "ghost", Op: NodeMove, X: 1, Y: 1},
		{ID: a, Op: NodeMove, X: 5, Y: 6},
		{ID: "phantom", Op: NodeRemove},
	})

	require.Len(t, next.Nodes, 2)
	i := next.NodeByID(a)
	require.Equal(t, 5.0, next.Nodes[i].X)
	require.Equal(t, 6.0, next.Nodes[i].Y)
}

func TestApplyNodeChangesClampsResize(t *testing.T) {
	t.Parallel()

	g, a, _ := twoNodeGraph(t)
	next := ApplyNodeChanges(g, []NodeChange{{ID: a, Op: NodeResize, Width: 1, Height: 1}})
	i := next.NodeByID(a)
	require.Equal(t, minNodeWidth, next.Nodes[i].Width)
	require.Equal(t, minNodeHeight, next.Nodes[i].Height)
}

func TestApplyNodeChangesRemoveCascades(t *testing.T) {
	t.Parallel()

	g, a, b := twoNodeGraph(t)
	g, err := Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)

	next := ApplyNodeChanges(g, []NodeChange{{ID: a, Op: NodeRemove}})
	require.Equal(t, -1, next.NodeByID(a))
	require.Empty(t, next.Edges)
	require.NoError(t, next.Validate())
}

func TestApplyEdgeChanges(t *testing.T) {
	t.Parallel()

	g, a, b := twoNodeGraph(t)
	g, err := Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)
	id := g.Edges[0].ID

	next := ApplyEdgeChanges(g, []EdgeChange{
		{ID: "ghost", Op: EdgeSetStroke, Stroke: 3},
		{ID: id, Op: EdgeSetStroke, Stroke: 2},
		{ID: id, Op: EdgeSetArrows, ArrowFrom: true, ArrowTo: true},
	})
	e := next.Edges[next.EdgeByID(id)]
	require.Equal(t, 2, e.Stroke)
	require.True(t, e.ArrowFrom)
	require.True(t, e.ArrowTo)

	next = ApplyEdgeChanges(next, []EdgeChange{{ID: id, Op: EdgeRemove}})
	require.Empty(t, next.Edges)
}

func TestSetNodeColor(t *testing.T) {
	t.Parallel()

	g, a, _ := twoNodeGraph(t)
	next := SetNodeColor(g, a, 4)
	require.Equal(t, 4, next.Nodes[next.NodeByID(a)].Color)
	require.Equal(t, -1, g.Nodes[g.NodeByID(a)].Color)

	require.Equal(t, next, SetNodeColor(next, "ghost", 2))
}
