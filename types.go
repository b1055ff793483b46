package main

// Buffer is one open diagram: its editing session plus view state that does
// not belong in history (pan offset, backing file).
type Buffer struct {
	session  *Session
	filename string
	panX     int
	panY     int
}

type model struct {
	width  int
	height int

	cursorX int
	cursorY int
	panMode bool

	buffers            []Buffer
	currentBufferIndex int

	mode       Mode
	help       bool
	helpScroll int

	// Selection and in-progress gestures. Ids are node/edge ids; empty
	// string means nothing selected.
	selectedNode string
	selectedEdge string

	// Label editing.
	editText      string
	editCursorPos int

	// Connect gesture: source node and handle chosen by the first 'a'.
	connectFrom       string
	connectFromHandle Handle

	// File input.
	filename          string
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation
	openInNewBuffer   bool
	fromStartup       bool

	// Confirmation prompts.
	confirmAction ConfirmAction
	confirmNodeID string
	confirmEdgeID string

	errorMessage   string
	successMessage string

	clipboard *Node
	exporter  *Exporter
	config    *Config
}
