package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	m := initialModel()
	if len(os.Args) > 1 {
		if err := m.openAtStartup(os.Args[1]); err != nil {
			log.Fatal(err)
		}
	}
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// exportDoneMsg reports the result of an async export.
type exportDoneMsg struct {
	path string
	err  error
}

func initialModel() model {
	config := loadConfig()

	m := model{
		mode:     ModeStartup,
		exporter: NewExporter(),
		config:   config,
	}

	session := NewSession(config.HistoryLimit)
	if config.StartMenu {
		welcome, _ := AddNode(Graph{}, ShapeRectangle, 1, 1,
			"Welcome to Chartly!\n\n'n' New flowchart\n'o' Open existing chart\n'q' Quit")
		session.Replace(welcome)
	} else {
		m.mode = ModeNormal
	}
	m.buffers = []Buffer{{session: session}}
	return m
}

// openAtStartup loads a diagram named on the command line into the first
// buffer, skipping the start menu.
func (m *model) openAtStartup(path string) error {
	g, panX, panY, err := LoadDiagram(path)
	if err != nil {
		return err
	}
	session := NewSession(m.config.HistoryLimit)
	session.Replace(g)
	m.buffers = []Buffer{{session: session, filename: path, panX: panX, panY: panY}}
	m.currentBufferIndex = 0
	m.mode = ModeNormal
	return nil
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	maxY := m.height - 2
	if maxY < 0 {
		maxY = 0
	}
	if m.cursorY > maxY {
		m.cursorY = maxY
	}
}

func (m *model) scanDiagramFiles() {
	m.fileList = []string{}

	dir, err := os.Getwd()
	if err != nil {
		m.selectedFileIndex = -1
		return
	}
	if m.config.SaveDirectory != "" {
		dir = m.config.SaveDirectory
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		m.selectedFileIndex = -1
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), diagramExt) {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)

	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = strings.TrimSuffix(m.fileList[0], diagramExt)
	} else {
		m.selectedFileIndex = -1
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
		} else {
			m.successMessage = fmt.Sprintf("Exported to %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help && m.mode != ModeStartup {
			return m.updateHelp(msg)
		}

		switch m.mode {
		case ModeStartup:
			return m.updateStartup(msg)
		case ModeNormal:
			return m.updateNormal(msg)
		case ModeEditing:
			return m.updateEditing(msg)
		case ModeMove, ModeResize:
			return m.updateMoveResize(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		maxScroll := len(helpLines()) - (m.height - 1)
		if maxScroll < 0 {
			maxScroll = 0
		}
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) updateStartup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		session := NewSession(m.config.HistoryLimit)
		m.buffers[0] = Buffer{session: session}
		m.currentBufferIndex = 0
		m.mode = ModeNormal
		m.cursorX = 0
		m.cursorY = 0
		m.errorMessage = ""
	case "o":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpen
		m.filename = ""
		m.errorMessage = ""
		m.fromStartup = true
		m.openInNewBuffer = false
		m.scanDiagramFiles()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if msg.Type == tea.KeyEscape {
		m.panMode = false
		m.connectFrom = ""
		m.selectedNode = ""
		m.selectedEdge = ""
		m.errorMessage = ""
		m.successMessage = ""
		return m, nil
	}

	if isNavigationKey(key) {
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}

	switch key {
	case "ctrl+c", "q":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit

	case "z":
		m.panMode = !m.panMode

	case "?":
		m.help = !m.help

	case "b", "1":
		return m.addNodeAtCursor(ShapeRectangle)
	case "2":
		return m.addNodeAtCursor(ShapeCircle)
	case "3":
		return m.addNodeAtCursor(ShapeDiamond)
	case "4":
		return m.addNodeAtCursor(ShapeArrow)

	case "e":
		wx, wy := m.worldCoords()
		if id := nodeAt(m.getGraph(), wx, wy); id != "" {
			i := m.getGraph().NodeByID(id)
			m.selectedNode = id
			m.editText = m.getGraph().Nodes[i].Label
			m.editCursorPos = len(m.editText)
			m.mode = ModeEditing
		}

	case "a":
		return m.handleConnect()

	case "d":
		return m.handleDelete()

	case "m", "r":
		wx, wy := m.worldCoords()
		if id := nodeAt(m.getGraph(), wx, wy); id != "" {
			m.selectedNode = id
			m.getSession().BeginGesture()
			if key == "m" {
				m.mode = ModeMove
			} else {
				m.mode = ModeResize
			}
		}

	case "A":
		return m.cycleEdgeArrows()

	case "C":
		return m.cycleColor()

	case "g":
		wx, wy := m.worldCoords()
		if id := nodeAt(m.getGraph(), wx, wy); id != "" {
			m.getSession().Apply(func(g Graph) (Graph, error) {
				return LayoutSubtree(g, id), nil
			})
			m.successMessage = "Arranged subtree"
		}

	case "y":
		wx, wy := m.worldCoords()
		if id := nodeAt(m.getGraph(), wx, wy); id != "" {
			g := m.getGraph()
			n := g.Nodes[g.NodeByID(id)]
			m.clipboard = &n
			clipboard.WriteAll(n.Label)
			m.successMessage = "Copied node"
		}

	case "p":
		return m.handlePaste()

	case "u":
		if m.getSession().Undo() {
			m.successMessage = "Undone"
			m.errorMessage = ""
		} else {
			m.errorMessage = "Nothing to undo"
		}

	case "U":
		if m.getSession().Redo() {
			m.successMessage = "Redone"
			m.errorMessage = ""
		} else {
			m.errorMessage = "Nothing to redo"
		}

	case "s":
		m.startFileInput(FileOpSave)
	case "S":
		m.startFileInput(FileOpSavePNG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)

	case "o", "O":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpen
		m.filename = ""
		m.errorMessage = ""
		m.openInNewBuffer = key == "O"
		m.fromStartup = false
		m.scanDiagramFiles()

	case "n":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmNewChart
	case "N":
		m.addNewBuffer(NewSession(m.config.HistoryLimit), "")
		m.cursorX = 0
		m.cursorY = 0
		m.errorMessage = ""
		m.successMessage = ""

	case "{":
		if len(m.buffers) > 1 {
			m.currentBufferIndex--
			if m.currentBufferIndex < 0 {
				m.currentBufferIndex = len(m.buffers) - 1
			}
		}
	case "}":
		if len(m.buffers) > 1 {
			m.currentBufferIndex++
			if m.currentBufferIndex >= len(m.buffers) {
				m.currentBufferIndex = 0
			}
		}
	case "x":
		if len(m.buffers) > 1 {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmCloseBuffer
		}
	}
	return m, nil
}

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.errorMessage = ""
	m.filename = ""
	if buf := m.getCurrentBuffer(); buf != nil && buf.filename != "" {
		base := filepath.Base(buf.filename)
		m.filename = strings.TrimSuffix(base, diagramExt)
	}
}

func (m model) addNodeAtCursor(kind ShapeKind) (tea.Model, tea.Cmd) {
	wx, wy := m.worldCoords()
	var newID string
	m.getSession().Apply(func(g Graph) (Graph, error) {
		next, id := AddNode(g, kind, float64(wx), float64(wy), "")
		newID = id
		return next, nil
	})
	m.selectedNode = newID
	m.editText = ""
	m.editCursorPos = 0
	m.mode = ModeEditing
	m.successMessage = ""
	m.errorMessage = ""
	return m, nil
}

func (m model) handleConnect() (tea.Model, tea.Cmd) {
	wx, wy := m.worldCoords()
	g := m.getGraph()
	id := nodeAt(g, wx, wy)
	if id == "" {
		m.errorMessage = "Place the cursor on a node to connect"
		return m, nil
	}
	n := g.Nodes[g.NodeByID(id)]
	handle := nearestHandle(n, wx, wy)

	if m.connectFrom == "" {
		m.connectFrom = id
		m.connectFromHandle = handle
		m.errorMessage = ""
		return m, nil
	}

	from, fromHandle := m.connectFrom, m.connectFromHandle
	m.connectFrom = ""
	err := m.getSession().Apply(func(g Graph) (Graph, error) {
		return Connect(g, from, fromHandle, id, handle)
	})
	if err != nil {
		m.errorMessage = err.Error()
	} else {
		m.successMessage = "Connected"
		m.errorMessage = ""
	}
	return m, nil
}

func (m model) handleDelete() (tea.Model, tea.Cmd) {
	wx, wy := m.worldCoords()
	g := m.getGraph()
	if id := nodeAt(g, wx, wy); id != "" {
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteNode
			m.confirmNodeID = id
		} else {
			m.getSession().Apply(func(g Graph) (Graph, error) {
				return RemoveNode(g, id), nil
			})
		}
		return m, nil
	}
	if id := edgeAt(g, wx, wy); id != "" {
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteEdge
			m.confirmEdgeID = id
		} else {
			m.getSession().Apply(func(g Graph) (Graph, error) {
				return RemoveEdge(g, id), nil
			})
		}
	}
	return m, nil
}

func (m model) cycleEdgeArrows() (tea.Model, tea.Cmd) {
	wx, wy := m.worldCoords()
	g := m.getGraph()
	id := edgeAt(g, wx, wy)
	if id == "" {
		return m, nil
	}
	e := g.Edges[g.EdgeByID(id)]
	var arrowFrom, arrowTo bool
	switch {
	case !e.ArrowFrom && !e.ArrowTo:
		arrowTo = true
	case !e.ArrowFrom && e.ArrowTo:
		arrowFrom = true
	case e.ArrowFrom && !e.ArrowTo:
		arrowFrom, arrowTo = true, true
	}
	m.getSession().Apply(func(g Graph) (Graph, error) {
		return ApplyEdgeChanges(g, []EdgeChange{{
			ID: id, Op: EdgeSetArrows, ArrowFrom: arrowFrom, ArrowTo: arrowTo,
		}}), nil
	})
	return m, nil
}

func (m model) cycleColor() (tea.Model, tea.Cmd) {
	wx, wy := m.worldCoords()
	g := m.getGraph()
	if id := nodeAt(g, wx, wy); id != "" {
		n := g.Nodes[g.NodeByID(id)]
		next := n.Color + 1
		if next >= numColors {
			next = -1
		}
		m.getSession().Apply(func(g Graph) (Graph, error) {
			return SetNodeColor(g, id, next), nil
		})
		return m, nil
	}
	if id := edgeAt(g, wx, wy); id != "" {
		e := g.Edges[g.EdgeByID(id)]
		next := e.Stroke + 1
		if next >= numColors {
			next = -1
		}
		m.getSession().Apply(func(g Graph) (Graph, error) {
			return ApplyEdgeChanges(g, []EdgeChange{{ID: id, Op: EdgeSetStroke, Stroke: next}}), nil
		})
	}
	return m, nil
}

func (m model) handlePaste() (tea.Model, tea.Cmd) {
	wx, wy := m.worldCoords()
	if m.clipboard != nil {
		src := *m.clipboard
		m.getSession().Apply(func(g Graph) (Graph, error) {
			next, id := AddNode(g, src.Kind, float64(wx), float64(wy), src.Label)
			return SetNodeColor(next, id, src.Color), nil
		})
		m.successMessage = "Pasted node"
		return m, nil
	}
	text, err := readClipboardText()
	if err != nil {
		m.errorMessage = "Clipboard unavailable"
		return m, nil
	}
	text = cleanClipboardText(text)
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return m, nil
	}
	m.getSession().Apply(func(g Graph) (Graph, error) {
		next, _ := AddNode(g, ShapeRectangle, float64(wx), float64(wy), text)
		return next, nil
	})
	m.successMessage = "Pasted clipboard text"
	return m, nil
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		id, text := m.selectedNode, m.editText
		m.getSession().Apply(func(g Graph) (Graph, error) {
			return Relabel(g, id, text), nil
		})
		m.mode = ModeNormal
		m.selectedNode = ""
		m.editText = ""
	case "esc":
		m.mode = ModeNormal
		m.selectedNode = ""
		m.editText = ""
	case "enter":
		m.editText = m.editText[:m.editCursorPos] + "\n" + m.editText[m.editCursorPos:]
		m.editCursorPos++
	case "backspace":
		if m.editCursorPos > 0 {
			m.editText = m.editText[:m.editCursorPos-1] + m.editText[m.editCursorPos:]
			m.editCursorPos--
		}
	case "left":
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
	case "right":
		if m.editCursorPos < len(m.editText) {
			m.editCursorPos++
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			var input string
			if msg.Type == tea.KeySpace {
				input = " "
			} else {
				input = string(msg.Runes)
			}
			m.editText = m.editText[:m.editCursorPos] + input + m.editText[m.editCursorPos:]
			m.editCursorPos += len(input)
		}
	}
	return m, nil
}

func (m model) updateMoveResize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	session := m.getSession()
	g := session.Graph()
	i := g.NodeByID(m.selectedNode)
	if i < 0 {
		session.CancelGesture()
		m.mode = ModeNormal
		m.selectedNode = ""
		return m, nil
	}
	n := g.Nodes[i]

	switch key {
	case "enter":
		session.EndGesture()
		m.mode = ModeNormal
		m.selectedNode = ""
		return m, nil
	case "esc":
		session.CancelGesture()
		m.mode = ModeNormal
		m.selectedNode = ""
		return m, nil
	}

	if !isNavigationKey(key) {
		return m, nil
	}
	speed := m.getMoveSpeed(key)
	dx, dy := 0, 0
	switch key {
	case "h", "left", "H", "shift+left":
		dx = -speed
	case "l", "right", "L", "shift+right":
		dx = speed
	case "k", "up", "K", "shift+up":
		dy = -speed
	case "j", "down", "J", "shift+down":
		dy = speed
	}

	var change NodeChange
	if m.mode == ModeMove {
		change = NodeChange{
			ID: n.ID, Op: NodeMove,
			X: n.X + float64(dx), Y: n.Y + float64(dy),
		}
	} else {
		change = NodeChange{
			ID: n.ID, Op: NodeResize,
			Width: n.Width + dx, Height: n.Height + dy,
		}
	}
	session.UpdateGesture(ApplyNodeChanges(g, []NodeChange{change}))
	return m, nil
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		if m.fromStartup {
			m.mode = ModeStartup
		}
		m.errorMessage = ""
		return m, nil

	case "up":
		if m.fileOp == FileOpOpen && m.selectedFileIndex > 0 {
			m.selectedFileIndex--
			m.filename = strings.TrimSuffix(m.fileList[m.selectedFileIndex], diagramExt)
		}
		return m, nil
	case "down":
		if m.fileOp == FileOpOpen && m.selectedFileIndex < len(m.fileList)-1 {
			m.selectedFileIndex++
			m.filename = strings.TrimSuffix(m.fileList[m.selectedFileIndex], diagramExt)
		}
		return m, nil

	case "backspace":
		if len(m.filename) > 0 {
			m.filename = m.filename[:len(m.filename)-1]
		}
		return m, nil

	case "enter":
		return m.performFileOp()

	default:
		if msg.Type == tea.KeyRunes {
			m.filename += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.filename += " "
		}
		return m, nil
	}
}

func (m model) performFileOp() (tea.Model, tea.Cmd) {
	if strings.TrimSpace(m.filename) == "" {
		m.errorMessage = "Filename required"
		return m, nil
	}

	switch m.fileOp {
	case FileOpSave:
		path := m.config.GetSavePath(m.filename + diagramExt)
		if _, err := os.Stat(path); err == nil && m.config.Confirmations {
			if buf := m.getCurrentBuffer(); buf == nil || buf.filename != path {
				m.mode = ModeConfirm
				m.confirmAction = ConfirmOverwriteFile
				return m, nil
			}
		}
		return m.doSave(path)

	case FileOpSavePNG:
		path := m.config.GetSavePath(m.filename + ".png")
		snapshot := m.getGraph()
		exporter := m.exporter
		m.mode = ModeNormal
		m.successMessage = "Exporting..."
		return m, func() tea.Msg {
			return exportDoneMsg{path: path, err: exporter.ExportPNG(snapshot, path)}
		}

	case FileOpSaveVisualTXT:
		path := m.config.GetSavePath(m.filename + ".txt")
		snapshot := m.getGraph()
		exporter := m.exporter
		m.mode = ModeNormal
		m.successMessage = "Exporting..."
		return m, func() tea.Msg {
			return exportDoneMsg{path: path, err: exporter.ExportVisualTXT(snapshot, path)}
		}

	case FileOpOpen:
		return m.doOpen()
	}
	return m, nil
}

func (m model) doSave(path string) (tea.Model, tea.Cmd) {
	buf := m.getCurrentBuffer()
	panX, panY := m.getPanOffset()
	if err := SaveDiagram(path, m.getGraph(), panX, panY); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	if buf != nil {
		buf.filename = path
	}
	m.mode = ModeNormal
	m.successMessage = fmt.Sprintf("Saved to %s", path)
	m.errorMessage = ""
	return m, nil
}

func (m model) doOpen() (tea.Model, tea.Cmd) {
	path := m.config.GetSavePath(m.filename + diagramExt)
	g, panX, panY, err := LoadDiagram(path)
	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}

	if m.openInNewBuffer {
		session := NewSession(m.config.HistoryLimit)
		session.Replace(g)
		m.addNewBufferWithPan(session, path, panX, panY)
	} else {
		buf := m.getCurrentBuffer()
		buf.session.Replace(g)
		buf.filename = path
		buf.panX = panX
		buf.panY = panY
	}

	m.mode = ModeNormal
	m.fromStartup = false
	m.cursorX = 0
	m.cursorY = 0
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Loaded %s", path)
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.confirmYes()
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.confirmNodeID = ""
		m.confirmEdgeID = ""
		return m, nil
	}
	return m, nil
}

func (m model) confirmYes() (tea.Model, tea.Cmd) {
	switch m.confirmAction {
	case ConfirmQuit:
		return m, tea.Quit

	case ConfirmDeleteNode:
		id := m.confirmNodeID
		m.getSession().Apply(func(g Graph) (Graph, error) {
			return RemoveNode(g, id), nil
		})
		m.confirmNodeID = ""

	case ConfirmDeleteEdge:
		id := m.confirmEdgeID
		m.getSession().Apply(func(g Graph) (Graph, error) {
			return RemoveEdge(g, id), nil
		})
		m.confirmEdgeID = ""

	case ConfirmNewChart:
		buf := m.getCurrentBuffer()
		buf.session.Replace(Graph{})
		buf.filename = ""
		buf.panX, buf.panY = 0, 0
		m.cursorX, m.cursorY = 0, 0

	case ConfirmCloseBuffer:
		if len(m.buffers) > 1 {
			i := m.currentBufferIndex
			m.buffers = append(m.buffers[:i], m.buffers[i+1:]...)
			if m.currentBufferIndex >= len(m.buffers) {
				m.currentBufferIndex = len(m.buffers) - 1
			}
		}

	case ConfirmOverwriteFile:
		path := m.config.GetSavePath(m.filename + diagramExt)
		return m.doSave(path)
	}

	m.mode = ModeNormal
	return m, nil
}

var (
	bufferTabStyle       = lipgloss.NewStyle().Padding(0, 1).Faint(true)
	bufferTabActiveStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	statusErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusOKStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func (m model) renderBufferBar(width int) string {
	if len(m.buffers) <= 1 {
		return strings.Repeat(" ", width)
	}
	var tabs []string
	for i, buf := range m.buffers {
		name := "[untitled]"
		if buf.filename != "" {
			name = strings.TrimSuffix(filepath.Base(buf.filename), diagramExt)
		}
		label := fmt.Sprintf("%d:%s", i+1, name)
		if i == m.currentBufferIndex {
			tabs = append(tabs, bufferTabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, bufferTabStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(bar) < width {
		bar += strings.Repeat(" ", width-lipgloss.Width(bar))
	}
	return bar
}

func (m model) View() string {
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}

	renderWidth := m.width
	if renderWidth < 1 {
		renderWidth = 1
	}
	showBufferBar := m.mode != ModeStartup && len(m.buffers) > 1
	renderHeight := m.height - 1
	if showBufferBar {
		renderHeight = m.height - 2
	}
	if renderHeight < 1 {
		renderHeight = 1
	}

	panX, panY := m.getPanOffset()
	opts := renderOpts{
		width:  renderWidth,
		height: renderHeight,
		panX:   panX,
		panY:   panY,
	}
	if m.mode == ModeMove || m.mode == ModeResize {
		opts.selectedNode = m.selectedNode
	}
	if m.mode == ModeConfirm {
		opts.selectedNode = m.confirmNodeID
		opts.selectedEdge = m.confirmEdgeID
	}
	if m.mode == ModeEditing {
		opts.editNodeID = m.selectedNode
		opts.editText = m.editText
		opts.editCursorPos = m.editCursorPos
	}
	if m.connectFrom != "" {
		g := m.getGraph()
		if i := g.NodeByID(m.connectFrom); i >= 0 {
			from := stepOut(handlePoint(g.Nodes[i], m.connectFromHandle), m.connectFromHandle)
			wx, wy := m.worldCoords()
			opts.previewFrom = &from
			opts.previewTo = point{wx, wy}
		}
	}

	canvas := Render(m.getGraph(), opts)

	// Navigation cursor on top of everything.
	if m.mode != ModeStartup && m.mode != ModeFileInput &&
		m.cursorY >= 0 && m.cursorY < len(canvas) {
		canvas[m.cursorY] = overlayCursor(canvas[m.cursorY], m.cursorX)
	}

	var result strings.Builder
	if showBufferBar {
		result.WriteString(m.renderBufferBar(renderWidth))
		result.WriteString("\n")
	}

	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		m.renderFileList(&result, renderWidth, renderHeight)
	} else {
		for i, line := range canvas {
			result.WriteString(line)
			if i < len(canvas)-1 {
				result.WriteString("\n")
			}
		}
	}

	if m.mode != ModeStartup {
		result.WriteString("\n")
		result.WriteString(m.statusLine())
	}
	return result.String()
}

// overlayCursor drops the block cursor into a line that may contain ANSI
// color sequences, counting only visible cells.
func overlayCursor(line string, x int) string {
	var out strings.Builder
	cell := 0
	inEscape := false
	replaced := false
	for _, r := range line {
		if inEscape {
			out.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			out.WriteRune(r)
			continue
		}
		if cell == x && !replaced {
			out.WriteRune('█')
			replaced = true
		} else {
			out.WriteRune(r)
		}
		cell++
	}
	return out.String()
}

func (m model) renderFileList(result *strings.Builder, width, height int) {
	result.WriteString("Select a saved chart:\n")
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")

	if len(m.fileList) == 0 {
		result.WriteString(fmt.Sprintf("(No %s files found)\n", diagramExt))
	} else {
		maxFiles := height - 4
		if maxFiles < 1 {
			maxFiles = 1
		}
		startIdx := 0
		if m.selectedFileIndex >= maxFiles {
			startIdx = m.selectedFileIndex - maxFiles + 1
		}
		endIdx := startIdx + maxFiles
		if endIdx > len(m.fileList) {
			endIdx = len(m.fileList)
		}
		for i := startIdx; i < endIdx; i++ {
			displayName := strings.TrimSuffix(m.fileList[i], diagramExt)
			if i == m.selectedFileIndex {
				result.WriteString("> " + displayName + " <")
			} else {
				result.WriteString("  " + displayName)
			}
			result.WriteString("\n")
		}
	}

	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")
	result.WriteString("Filename: ")
	result.WriteString(m.filename)
	result.WriteString("█")
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeEditing:
		displayText := strings.ReplaceAll(m.editText, "\n", " ")
		cursorPos := m.editCursorPos
		if cursorPos > len(displayText) {
			cursorPos = len(displayText)
		}
		var cursorDisplay string
		if cursorPos >= len(displayText) {
			cursorDisplay = displayText + "█"
		} else {
			runes := []rune(displayText)
			runes[cursorPos] = '█'
			cursorDisplay = string(runes)
		}
		return fmt.Sprintf("Mode: EDIT | Node %s | Text: %s | ←/→=move cursor, Enter=newline, Ctrl+S=save, Esc=cancel",
			shortID(m.selectedNode), cursorDisplay)

	case ModeResize:
		return fmt.Sprintf("Mode: RESIZE | Node %s | hjkl/arrows=resize, Enter=finish, Esc=cancel", shortID(m.selectedNode))

	case ModeMove:
		return fmt.Sprintf("Mode: MOVE | Node %s | hjkl/arrows=move, Enter=finish, Esc=cancel", shortID(m.selectedNode))

	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpSave:
			opStr = "Save"
		case FileOpOpen:
			opStr = "Open"
		case FileOpSavePNG:
			opStr = "Export PNG"
		case FileOpSaveVisualTXT:
			opStr = "Export text"
		}
		if m.errorMessage != "" {
			return fmt.Sprintf("Mode: FILE | %s | %s filename: %s | Enter=retry, Esc=cancel",
				statusErrorStyle.Render("ERROR: "+m.errorMessage), opStr, m.filename)
		}
		return fmt.Sprintf("Mode: FILE | %s filename: %s | Enter=confirm, Esc=cancel", opStr, m.filename)

	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteNode:
			message = "Delete this node and its connections? (y/n)"
		case ConfirmDeleteEdge:
			message = "Delete this connection? (y/n)"
		case ConfirmQuit:
			message = "Quit Chartly? (y/n)"
		case ConfirmNewChart:
			message = "Create new chart? Unsaved changes will be lost. (y/n)"
		case ConfirmCloseBuffer:
			message = "Close current buffer? Unsaved changes will be lost. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.filename)
		}
		return "Mode: CONFIRM | " + message

	default:
		modeStr := "NORMAL"
		if m.panMode {
			modeStr = "PAN"
		}
		status := fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", modeStr, m.cursorX, m.cursorY)
		session := m.getSession()
		if session != nil {
			h := session.History()
			if h.CanUndo() || h.CanRedo() {
				status += fmt.Sprintf(" | undo:%v redo:%v", h.CanUndo(), h.CanRedo())
			}
		}
		if m.connectFrom != "" {
			status += fmt.Sprintf(" | Connecting from %s:%s (select target)", shortID(m.connectFrom), m.connectFromHandle)
		}
		if m.successMessage != "" {
			status += " | " + statusOKStyle.Render(m.successMessage)
		}
		if m.errorMessage != "" {
			status += " | " + statusErrorStyle.Render("ERROR: "+m.errorMessage)
		} else if m.successMessage == "" {
			status += " | ? for help | q to quit"
		}
		return status
	}
}

func helpLines() []string {
	return []string{
		"Chartly Help",
		"============",
		"",
		"Navigation:",
		"-----------",
		"  h/←/j/↓/k/↑/l/→  Move cursor around the screen",
		"  Shift+h/j/k/l    Move cursor 2x faster",
		"  z                Toggle pan mode (navigation keys pan the canvas)",
		"",
		"Node Operations:",
		"----------------",
		"  b or 1           Create rectangle at cursor",
		"  2                Create circle at cursor",
		"  3                Create diamond at cursor",
		"  4                Create arrow shape at cursor",
		"  e                Edit label of node under cursor",
		"  r                Resize node under cursor",
		"  m                Move node under cursor",
		"  d                Delete node under cursor (cascades its connections)",
		"  y                Copy node under cursor",
		"  p                Paste copied node (or clipboard text) at cursor",
		"  C                Cycle node/edge color",
		"  g                Auto-arrange the subtree under cursor",
		"",
		"Connections:",
		"------------",
		"  a                Start/finish a connection",
		"                   - Press 'a' on a node to pick the source handle",
		"                   - Press 'a' on another node to connect",
		"  A                Cycle arrow markers: to → from → both → none",
		"  d                Delete connection under cursor",
		"",
		"File Operations:",
		"----------------",
		"  s                Save flowchart",
		"  S                Export as PNG image",
		"  T                Export as visual text",
		"  o                Load a saved flowchart in current buffer",
		"  O                Load a saved flowchart in new buffer",
		"",
		"Buffers:",
		"--------",
		"  {                Previous buffer",
		"  }                Next buffer",
		"  n                New chart in current buffer",
		"  N                New chart in new buffer",
		"  x                Close current buffer",
		"",
		"General:",
		"  u                Undo last action",
		"  U                Redo last undone action",
		"  Esc              Clear selection / cancel current operation",
		"  ?                Toggle this help screen",
		"  q/Ctrl+C         Quit Chartly",
	}
}

func (m model) helpView() string {
	lines := helpLines()
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	start := m.helpScroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visibleHeight
	if end > len(lines) {
		end = len(lines)
	}
	var out strings.Builder
	for _, line := range lines[start:end] {
		out.WriteString(line)
		out.WriteString("\n")
	}
	out.WriteString("j/k=scroll, any other key to close")
	return out.String()
}
