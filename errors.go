package main

import "errors"

// Failure categories surfaced to the editing session. Everything else the
// mutation layer tolerates as a silent no-op (stale UI events referencing
// deleted ids must not crash the session).
var (
	// ErrInvalidConnection is returned when a connect gesture names a source
	// or target node that is not present in the graph.
	ErrInvalidConnection = errors.New("invalid connection: endpoint does not exist")

	// ErrMalformedDiagram is returned when a saved diagram cannot be parsed
	// or fails the referential invariant. Loading is all-or-nothing: the
	// live graph is never partially replaced.
	ErrMalformedDiagram = errors.New("malformed diagram")

	// ErrExportFailed wraps failures from the image/text exporters. Export
	// failures never touch editor state.
	ErrExportFailed = errors.New("export failed")
)
