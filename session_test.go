package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustApply(t *testing.T, s *Session, mutate func(Graph) (Graph, error)) {
	t.Helper()
	require.NoError(t, s.Apply(mutate))
}

// Three edits, three undos back to empty, three redos forward again.
func TestSessionEditUndoRedoSequence(t *testing.T) {
	t.Parallel()

	s := NewSession(0)

	var firstID string
	mustApply(t, s, func(g Graph) (Graph, error) {
		next, id := AddNode(g, ShapeRectangle, 0, 0, "start")
		firstID = id
		return next, nil
	})
	afterAdd := s.Graph()

	mustApply(t, s, func(g Graph) (Graph, error) {
		return ApplyNodeChanges(g, []NodeChange{{ID: firstID, Op: NodeMove, X: 10, Y: 5}}), nil
	})
	afterMove := s.Graph()

	mustApply(t, s, func(g Graph) (Graph, error) {
		return Relabel(g, firstID, "renamed"), nil
	})
	afterRelabel := s.Graph()

	require.True(t, s.Undo())
	require.Equal(t, afterMove, s.Graph())
	require.True(t, s.Undo())
	require.Equal(t, afterAdd, s.Graph())
	require.True(t, s.Undo())
	require.Empty(t, s.Graph().Nodes)
	require.False(t, s.Undo())

	require.True(t, s.Redo())
	require.Equal(t, afterAdd, s.Graph())
	require.True(t, s.Redo())
	require.Equal(t, afterMove, s.Graph())
	require.True(t, s.Redo())
	require.Equal(t, afterRelabel, s.Graph())
	require.False(t, s.Redo())
}

func TestSessionFailedApplyRecordsNothing(t *testing.T) {
	t.Parallel()

	s := NewSession(0)
	mustApply(t, s, func(g Graph) (Graph, error) {
		next, _ := AddNode(g, ShapeRectangle, 0, 0, "lonely")
		return next, nil
	})
	before := s.Graph()

	err := s.Apply(func(g Graph) (Graph, error) {
		return Connect(g, "no-such-node", HandleRight, "also-missing", HandleLeft)
	})
	require.ErrorIs(t, err, ErrInvalidConnection)
	require.Equal(t, before, s.Graph(), "failed mutation must leave the live graph untouched")

	// The failure pushed nothing: one undo reaches the empty graph.
	require.True(t, s.Undo())
	require.Empty(t, s.Graph().Nodes)
	require.False(t, s.Undo())
}

func TestSessionGestureCollapsesToOneEntry(t *testing.T) {
	t.Parallel()

	s := NewSession(0)
	var id string
	mustApply(t, s, func(g Graph) (Graph, error) {
		next, nodeID := AddNode(g, ShapeCircle, 0, 0, "drag me")
		id = nodeID
		return next, nil
	})
	beforeDrag := s.Graph()

	s.BeginGesture()
	for step := 1; step <= 5; step++ {
		s.UpdateGesture(ApplyNodeChanges(s.Graph(), []NodeChange{{
			ID: id, Op: NodeMove, X: float64(step), Y: float64(step),
		}}))
	}
	s.EndGesture()

	i := s.Graph().NodeByID(id)
	require.Equal(t, 5.0, s.Graph().Nodes[i].X)

	// One undo jumps over all five intermediate positions.
	require.True(t, s.Undo())
	require.Equal(t, beforeDrag, s.Graph())
}

func TestSessionCancelGestureRollsBack(t *testing.T) {
	t.Parallel()

	s := NewSession(0)
	var id string
	mustApply(t, s, func(g Graph) (Graph, error) {
		next, nodeID := AddNode(g, ShapeDiamond, 3, 3, "stay put")
		id = nodeID
		return next, nil
	})
	before := s.Graph()

	s.BeginGesture()
	s.UpdateGesture(ApplyNodeChanges(s.Graph(), []NodeChange{{ID: id, Op: NodeMove, X: 99, Y: 99}}))
	s.CancelGesture()

	require.Equal(t, before, s.Graph())
	require.True(t, s.Undo(), "the original add is still undoable")
	require.Empty(t, s.Graph().Nodes)
	require.False(t, s.Undo(), "the canceled drag must not have pushed an entry")
}

func TestSessionReplaceResetsHistory(t *testing.T) {
	t.Parallel()

	s := NewSession(0)
	mustApply(t, s, func(g Graph) (Graph, error) {
		next, _ := AddNode(g, ShapeRectangle, 0, 0, "old world")
		return next, nil
	})
	require.True(t, s.History().CanUndo())

	loaded, _ := AddNode(Graph{}, ShapeCircle, 7, 7, "new world")
	s.Replace(loaded)

	require.Equal(t, loaded, s.Graph())
	require.False(t, s.Undo(), "history must not cross a load boundary")
	require.False(t, s.Redo())
}
