package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeAtPicksTopmost(t *testing.T) {
	t.Parallel()

	g, bottom := AddNode(Graph{}, ShapeRectangle, 0, 0, "under")
	g, top := AddNode(g, ShapeRectangle, 2, 1, "over")

	require.Equal(t, top, nodeAt(g, 3, 2), "overlap resolves to the later node")
	require.Equal(t, bottom, nodeAt(g, 0, 0))
	require.Equal(t, "", nodeAt(g, 50, 50))
}

func TestNearestHandle(t *testing.T) {
	t.Parallel()

	n := Node{X: 0, Y: 0, Width: 10, Height: 5}
	require.Equal(t, HandleLeft, nearestHandle(n, 0, 2))
	require.Equal(t, HandleRight, nearestHandle(n, 9, 2))
	require.Equal(t, HandleTop, nearestHandle(n, 5, 0))
	require.Equal(t, HandleBottom, nearestHandle(n, 5, 4))
}

func TestEdgeAtFindsPathCells(t *testing.T) {
	t.Parallel()

	g, a := AddNode(Graph{}, ShapeRectangle, 0, 0, "a") // 8x3
	g, b := AddNode(g, ShapeRectangle, 20, 0, "b")
	g, err := Connect(g, a, HandleRight, b, HandleLeft)
	require.NoError(t, err)
	id := g.Edges[0].ID

	// The path runs along row 1 between the two borders.
	require.Equal(t, id, edgeAt(g, 12, 1))
	require.Equal(t, "", edgeAt(g, 12, 10))
}

func TestRenderShowsLabelsAndBorders(t *testing.T) {
	t.Parallel()

	g, _ := AddNode(Graph{}, ShapeRectangle, 1, 1, "hello")
	lines := Render(g, renderOpts{width: 30, height: 10})
	require.Len(t, lines, 10)

	joined := strings.Join(lines, "\n")
	require.Contains(t, joined, "hello")
	require.Contains(t, joined, "+--", "rectangle corners/edges")
}

func TestRenderAppliesPan(t *testing.T) {
	t.Parallel()

	g, _ := AddNode(Graph{}, ShapeRectangle, 100, 100, "far away")

	lines := Render(g, renderOpts{width: 30, height: 10})
	require.NotContains(t, strings.Join(lines, "\n"), "far away")

	lines = Render(g, renderOpts{width: 30, height: 10, panX: 99, panY: 99})
	require.Contains(t, strings.Join(lines, "\n"), "far away")
}

func TestRenderColorsOnlyColoredCells(t *testing.T) {
	t.Parallel()

	g, a := AddNode(Graph{}, ShapeRectangle, 0, 0, "plain")
	plain := strings.Join(Render(g, renderOpts{width: 20, height: 6}), "\n")
	require.NotContains(t, plain, "\x1b[", "default palette renders without escapes")

	g = SetNodeColor(g, a, 2)
	colored := strings.Join(Render(g, renderOpts{width: 20, height: 6}), "\n")
	require.Contains(t, colored, "\x1b[")
	require.Contains(t, colored, colorReset)
}

func TestOverlayCursorCountsVisibleCells(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ab█d", overlayCursor("abcd", 2))

	// Escape sequences occupy no visible cells.
	withColor := "\x1b[33mab\x1b[0mcd"
	require.Equal(t, "\x1b[33mab\x1b[0m█d", overlayCursor(withColor, 2))
}
