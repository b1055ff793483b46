package main

// Session is the composition root for one open diagram: it owns the live
// graph and its history, and sequences every externally triggered mutation
// as snapshot, then mutate, then adopt. Undo and redo bypass the snapshot
// step so that undoing never generates history of its own.
//
// All mutation entry points run on the single UI event loop; a Session has
// no locking and must not be shared across goroutines. Exporters receive
// the live Graph value, which later mutations can never modify.
type Session struct {
	graph   Graph
	history *History

	// gesture holds the pre-gesture snapshot while a drag (move/resize) is
	// in progress, so a burst of per-keystroke mutations collapses into a
	// single history entry.
	gesture   Graph
	inGesture bool
}

// NewSession returns an empty session with the given undo depth limit.
func NewSession(historyLimit int) *Session {
	return &Session{history: NewHistory(historyLimit)}
}

// Graph returns the live graph value.
func (s *Session) Graph() Graph { return s.graph }

// History exposes stack state for the status line.
func (s *Session) History() *History { return s.history }

// Apply runs one mutation: the pre-mutation state is pushed, the applier
// computes the successor, and the result is adopted as live. When the
// applier fails nothing is recorded and the live graph is untouched.
func (s *Session) Apply(mutate func(Graph) (Graph, error)) error {
	next, err := mutate(s.graph)
	if err != nil {
		return err
	}
	s.history.Push(s.graph)
	s.graph = next
	return nil
}

// BeginGesture captures the current state ahead of a multi-event drag.
// Subsequent UpdateGesture calls adopt intermediate states without touching
// history.
func (s *Session) BeginGesture() {
	s.gesture = s.graph
	s.inGesture = true
}

// UpdateGesture adopts an intermediate state during a drag.
func (s *Session) UpdateGesture(next Graph) {
	s.graph = next
}

// EndGesture commits the drag as one history entry. Committing without
// movement still records an entry only if the state changed pointer-wise;
// callers that cancel should use CancelGesture instead.
func (s *Session) EndGesture() {
	if !s.inGesture {
		return
	}
	s.history.Push(s.gesture)
	s.inGesture = false
	s.gesture = Graph{}
}

// CancelGesture rolls the live state back to the pre-gesture snapshot.
func (s *Session) CancelGesture() {
	if !s.inGesture {
		return
	}
	s.graph = s.gesture
	s.inGesture = false
	s.gesture = Graph{}
}

// Undo adopts the previous state, if any.
func (s *Session) Undo() bool {
	g, ok := s.history.Undo(s.graph)
	s.graph = g
	return ok
}

// Redo adopts the next state, if any.
func (s *Session) Redo() bool {
	g, ok := s.history.Redo(s.graph)
	s.graph = g
	return ok
}

// Replace atomically swaps in a whole graph (diagram load, new chart) and
// discards all history.
func (s *Session) Replace(g Graph) {
	s.graph = g
	s.history.Reset()
	s.inGesture = false
	s.gesture = Graph{}
}
