package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeEditing
	ModeResize
	ModeMove
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmDeleteEdge
	ConfirmQuit
	ConfirmNewChart
	ConfirmCloseBuffer
	ConfirmOverwriteFile
)

const (
	minNodeWidth  = 8
	minNodeHeight = 3
	numColors     = 8

	diagramExt = ".flow"
)
