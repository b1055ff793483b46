package main

// History is the two-stack undo/redo mechanism. Entries are Graph values
// captured immediately before a mutation; because graphs are immutable
// values, stacking one is a cheap slice append, not a deep copy.
//
// The core law: Undo immediately followed by Redo (with no mutation in
// between) restores exactly the state that existed before the Undo.
type History struct {
	undo  []Graph
	redo  []Graph
	limit int // max undo depth, 0 = unbounded
}

// NewHistory returns a history with the given undo depth limit. A limit of
// zero keeps every entry; long sessions then grow memory without bound,
// which is the editor's historical behavior.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records the pre-mutation state and clears the redo stack: editing
// after an undo discards the abandoned future. When the depth limit is
// exceeded the oldest entry is dropped.
func (h *History) Push(current Graph) {
	h.undo = append(h.undo, current)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// Undo pops the most recent entry, parking the live state on the redo
// stack. Returns the live state unchanged with ok=false when there is
// nothing to undo.
func (h *History) Undo(live Graph) (Graph, bool) {
	if len(h.undo) == 0 {
		return live, false
	}
	last := len(h.undo) - 1
	prev := h.undo[last]
	h.undo = h.undo[:last]
	h.redo = append(h.redo, live)
	return prev, true
}

// Redo is the mirror of Undo.
func (h *History) Redo(live Graph) (Graph, bool) {
	if len(h.redo) == 0 {
		return live, false
	}
	last := len(h.redo) - 1
	next := h.redo[last]
	h.redo = h.redo[:last]
	h.undo = append(h.undo, live)
	return next, true
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Reset drops both stacks. Used when a diagram is loaded or replaced
// wholesale; history never crosses a load boundary.
func (h *History) Reset() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
