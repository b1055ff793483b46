package main

import (
	"fmt"
	"strings"
)

type point struct {
	X, Y int
}

// cellRect is a node's footprint on the cell grid.
func cellRect(n Node) (x, y, w, h int) {
	return int(n.X), int(n.Y), n.Width, n.Height
}

// handlePoint returns the world cell of a handle's midpoint on the node
// border.
func handlePoint(n Node, h Handle) point {
	x, y, w, ht := cellRect(n)
	switch h {
	case HandleLeft:
		return point{x, y + ht/2}
	case HandleRight:
		return point{x + w - 1, y + ht/2}
	case HandleTop:
		return point{x + w/2, y}
	default:
		return point{x + w/2, y + ht - 1}
	}
}

// nearestHandle picks the side of the node closest to the cursor; used to
// decide which handle a connect gesture grabs.
func nearestHandle(n Node, cursorX, cursorY int) Handle {
	x, y, w, h := cellRect(n)
	distLeft := abs(cursorX - x)
	distRight := abs(cursorX - (x + w - 1))
	distTop := abs(cursorY - y)
	distBottom := abs(cursorY - (y + h - 1))

	best := distLeft
	handle := HandleLeft
	if distRight < best {
		best = distRight
		handle = HandleRight
	}
	if distTop < best {
		best = distTop
		handle = HandleTop
	}
	if distBottom < best {
		handle = HandleBottom
	}
	return handle
}

// nodeAt returns the id of the topmost node covering the world cell, or "".
// Later nodes draw on top, so the scan runs back to front.
func nodeAt(g Graph, x, y int) string {
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		nx, ny, w, h := cellRect(g.Nodes[i])
		if x >= nx && x < nx+w && y >= ny && y < ny+h {
			return g.Nodes[i].ID
		}
	}
	return ""
}

// edgeAt returns the id of the first edge whose rendered path covers the
// world cell, or "".
func edgeAt(g Graph, x, y int) string {
	for _, e := range g.Edges {
		for _, cell := range edgeCells(g, e) {
			if cell.X == x && cell.Y == y {
				return e.ID
			}
		}
	}
	return ""
}

// edgePath returns the elbow path an edge takes between its handle points,
// stepping one cell out of each node so arrow markers sit on the line, not
// the border.
func edgePath(g Graph, e Edge) (from, corner, to point, ok bool) {
	si := g.NodeByID(e.Source)
	ti := g.NodeByID(e.Target)
	if si < 0 || ti < 0 {
		return point{}, point{}, point{}, false
	}
	from = stepOut(handlePoint(g.Nodes[si], e.SourceHandle), e.SourceHandle)
	to = stepOut(handlePoint(g.Nodes[ti], e.TargetHandle), e.TargetHandle)

	// Horizontal handles leave horizontally first, vertical ones vertically.
	if e.SourceHandle == HandleLeft || e.SourceHandle == HandleRight {
		corner = point{to.X, from.Y}
	} else {
		corner = point{from.X, to.Y}
	}
	return from, corner, to, true
}

func stepOut(p point, h Handle) point {
	switch h {
	case HandleLeft:
		return point{p.X - 1, p.Y}
	case HandleRight:
		return point{p.X + 1, p.Y}
	case HandleTop:
		return point{p.X, p.Y - 1}
	default:
		return point{p.X, p.Y + 1}
	}
}

// edgeCells lists every world cell on an edge's rendered path.
func edgeCells(g Graph, e Edge) []point {
	from, corner, to, ok := edgePath(g, e)
	if !ok {
		return nil
	}
	cells := lineCells(from, corner)
	tail := lineCells(corner, to)
	if len(tail) > 0 {
		cells = append(cells, tail[1:]...)
	}
	return cells
}

// lineCells walks an axis-aligned segment inclusively.
func lineCells(a, b point) []point {
	var cells []point
	switch {
	case a.Y == b.Y:
		step := 1
		if b.X < a.X {
			step = -1
		}
		for x := a.X; ; x += step {
			cells = append(cells, point{x, a.Y})
			if x == b.X {
				break
			}
		}
	default:
		step := 1
		if b.Y < a.Y {
			step = -1
		}
		for y := a.Y; ; y += step {
			cells = append(cells, point{a.X, y})
			if y == b.Y {
				break
			}
		}
	}
	return cells
}

// renderOpts collects the view-layer overlays drawn on top of the graph.
type renderOpts struct {
	width, height int
	panX, panY    int

	selectedNode string
	selectedEdge string

	// In-progress connect gesture preview, world coordinates. Active when
	// previewFrom is non-nil.
	previewFrom *point
	previewTo   point

	// Label editing overlay.
	editNodeID    string
	editText      string
	editCursorPos int
}

type grid struct {
	runes  [][]rune
	colors [][]int
	w, h   int
}

func newGrid(w, h int) *grid {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g := &grid{runes: make([][]rune, h), colors: make([][]int, h), w: w, h: h}
	for i := range g.runes {
		g.runes[i] = make([]rune, w)
		g.colors[i] = make([]int, w)
		for j := range g.runes[i] {
			g.runes[i][j] = ' '
			g.colors[i][j] = -1
		}
	}
	return g
}

func (gr *grid) set(x, y int, r rune, color int) {
	if y < 0 || y >= gr.h || x < 0 || x >= gr.w {
		return
	}
	gr.runes[y][x] = r
	gr.colors[y][x] = color
}

// Render draws the graph and overlays to screen lines, ANSI colors applied.
// Edges are drawn first so nodes sit on top, matching the file z-order.
func Render(g Graph, opts renderOpts) []string {
	gr := newGrid(opts.width, opts.height)

	for _, e := range g.Edges {
		drawEdge(gr, g, e, opts)
	}
	if opts.previewFrom != nil {
		drawPreview(gr, *opts.previewFrom, opts.previewTo, opts)
	}
	for _, n := range g.Nodes {
		drawNode(gr, n, opts)
	}

	return gr.lines()
}

func drawEdge(gr *grid, g Graph, e Edge, opts renderOpts) {
	from, corner, to, ok := edgePath(g, e)
	if !ok {
		return
	}
	stroke := e.Stroke
	if e.ID == opts.selectedEdge {
		stroke = -1 // selection renders in the default color with # markers
	}
	drawSegment(gr, from, corner, stroke, opts)
	drawSegment(gr, corner, to, stroke, opts)
	if corner != from && corner != to {
		gr.set(corner.X-opts.panX, corner.Y-opts.panY, '+', stroke)
	}
	if e.ArrowFrom {
		gr.set(from.X-opts.panX, from.Y-opts.panY, arrowGlyph(to, from, corner), stroke)
	}
	if e.ArrowTo {
		gr.set(to.X-opts.panX, to.Y-opts.panY, arrowGlyph(from, to, corner), stroke)
	}
	if e.ID == opts.selectedEdge {
		gr.set(corner.X-opts.panX, corner.Y-opts.panY, '#', stroke)
	}
}

func drawPreview(gr *grid, from, to point, opts renderOpts) {
	corner := point{to.X, from.Y}
	drawSegment(gr, from, corner, -1, opts)
	drawSegment(gr, corner, to, -1, opts)
	if corner != from && corner != to {
		gr.set(corner.X-opts.panX, corner.Y-opts.panY, '+', -1)
	}
}

func drawSegment(gr *grid, a, b point, color int, opts renderOpts) {
	glyph := '-'
	if a.X == b.X && a.Y != b.Y {
		glyph = '|'
	}
	for _, cell := range lineCells(a, b) {
		gr.set(cell.X-opts.panX, cell.Y-opts.panY, glyph, color)
	}
}

// arrowGlyph picks the marker for the arrow tip at `tip`, approaching from
// the elbow corner (or the far end when the path is straight).
func arrowGlyph(far, tip, corner point) rune {
	prev := corner
	if corner == tip || corner == far {
		prev = far
	}
	switch {
	case prev.X < tip.X:
		return '>'
	case prev.X > tip.X:
		return '<'
	case prev.Y < tip.Y:
		return 'v'
	default:
		return '^'
	}
}

// shapeBorder returns the border glyph set for a kind: corners are
// topleft, topright, bottomleft, bottomright.
func shapeBorder(kind ShapeKind) (corners [4]rune, horizontal, vertical rune) {
	switch kind {
	case ShapeCircle:
		return [4]rune{'.', '.', '\'', '\''}, '-', '('
	case ShapeDiamond:
		return [4]rune{'/', '\\', '\\', '/'}, '-', '|'
	case ShapeArrow:
		return [4]rune{'+', '+', '+', '+'}, '=', '|'
	default:
		return [4]rune{'+', '+', '+', '+'}, '-', '|'
	}
}

func drawNode(gr *grid, n Node, opts renderOpts) {
	x, y, w, h := cellRect(n)
	x -= opts.panX
	y -= opts.panY

	corners, horizontal, vertical := shapeBorder(n.Kind)
	rightVertical := vertical
	if n.Kind == ShapeCircle {
		rightVertical = ')'
	}
	if n.Kind == ShapeArrow {
		rightVertical = '>'
	}
	if n.ID == opts.selectedNode {
		corners = [4]rune{'#', '#', '#', '#'}
		horizontal, vertical, rightVertical = '#', '#', '#'
	}

	// Interior first so borders win at the rim.
	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			gr.set(cx, cy, ' ', n.Color)
		}
	}
	for cx := x; cx < x+w; cx++ {
		gr.set(cx, y, horizontal, n.Color)
		gr.set(cx, y+h-1, horizontal, n.Color)
	}
	for cy := y; cy < y+h; cy++ {
		gr.set(x, cy, vertical, n.Color)
		gr.set(x+w-1, cy, rightVertical, n.Color)
	}
	gr.set(x, y, corners[0], n.Color)
	gr.set(x+w-1, y, corners[1], n.Color)
	gr.set(x, y+h-1, corners[2], n.Color)
	gr.set(x+w-1, y+h-1, corners[3], n.Color)

	label := n.Label
	editing := n.ID == opts.editNodeID
	if editing {
		label = opts.editText
	}
	lines := strings.Split(label, "\n")
	for li, line := range lines {
		ty := y + 1 + li
		if ty >= y+h-1 {
			break
		}
		maxWidth := w - 2
		if maxWidth < 0 {
			maxWidth = 0
		}
		if len(line) > maxWidth {
			line = line[:maxWidth]
		}
		for ci, r := range line {
			gr.set(x+1+ci, ty, r, n.Color)
		}
	}
	if editing {
		cx, cy := labelCursorCell(lines, opts.editCursorPos)
		gr.set(x+1+cx, y+1+cy, '█', n.Color)
	}
}

// labelCursorCell converts a flat cursor offset in the edit text to a
// (column, line) cell within the label area.
func labelCursorCell(lines []string, cursorPos int) (int, int) {
	remaining := cursorPos
	for li, line := range lines {
		if remaining <= len(line) {
			return remaining, li
		}
		remaining -= len(line) + 1 // the newline
	}
	if len(lines) == 0 {
		return 0, 0
	}
	return len(lines[len(lines)-1]), len(lines) - 1
}

func (gr *grid) lines() []string {
	result := make([]string, gr.h)
	for i, row := range gr.runes {
		var coloredLine strings.Builder
		currentColor := -1
		for j, char := range row {
			cellColor := gr.colors[i][j]
			if cellColor != currentColor {
				if currentColor != -1 {
					coloredLine.WriteString(colorReset)
				}
				if cellColor != -1 {
					coloredLine.WriteString(getColorCode(cellColor))
				}
				currentColor = cellColor
			}
			coloredLine.WriteRune(char)
		}
		if currentColor != -1 {
			coloredLine.WriteString(colorReset)
		}
		result[i] = coloredLine.String()
	}
	return result
}

const colorReset = "\x1b[0m"

func getColorCode(colorIndex int) string {
	colors := []int{31, 32, 33, 34, 35, 36, 91, 93} // red green yellow blue magenta cyan brightred brightyellow
	if colorIndex < 0 || colorIndex >= len(colors) {
		return ""
	}
	return fmt.Sprintf("\x1b[%dm", colors[colorIndex])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
