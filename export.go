package main

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Exporter produces static artifacts from a graph snapshot. Exports run off
// the UI loop; the mutex serializes overlapping requests so two exports
// never interleave writes. The snapshot handed in is an immutable value, so
// in-flight exports are unaffected by further editing.
type Exporter struct {
	mu sync.Mutex
}

func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportPNG rasterizes the graph to a PNG file.
func (ex *Exporter) ExportPNG(g Graph, filename string) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if err := exportPNG(g, filename); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// ExportVisualTXT writes the diagram as it renders on the terminal grid,
// cropped to the graph bounds, without colors or overlays.
func (ex *Exporter) ExportVisualTXT(g Graph, filename string) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if err := exportVisualTXT(g, filename); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

func exportVisualTXT(g Graph, filename string) error {
	minX, minY, maxX, maxY, ok := exportBounds(g)
	if !ok {
		return fmt.Errorf("nothing to export")
	}
	lines := Render(g, renderOpts{
		width:  maxX - minX,
		height: maxY - minY,
		panX:   minX,
		panY:   minY,
	})

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, line := range lines {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// exportBounds is the graph bounding box padded by two cells, edge paths
// included.
func exportBounds(g Graph) (minX, minY, maxX, maxY int, ok bool) {
	minX, minY, maxX, maxY, ok = g.Bounds()
	if !ok {
		return 0, 0, 0, 0, false
	}
	for _, e := range g.Edges {
		for _, cell := range edgeCells(g, e) {
			if cell.X < minX {
				minX = cell.X
			}
			if cell.Y < minY {
				minY = cell.Y
			}
			if cell.X+1 > maxX {
				maxX = cell.X + 1
			}
			if cell.Y+1 > maxY {
				maxY = cell.Y + 1
			}
		}
	}
	const padding = 2
	return minX - padding, minY - padding, maxX + padding, maxY + padding, true
}

func exportPNG(g Graph, filename string) error {
	if len(g.Nodes) == 0 {
		return fmt.Errorf("nothing to export")
	}

	// Pixels per character cell.
	charWidth := 8.0
	charHeight := 16.0

	minX, minY, maxX, maxY, _ := exportBounds(g)
	imageWidth := int(float64(maxX-minX) * charWidth)
	imageHeight := int(float64(maxY-minY) * charHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12.0,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	px := func(p point) (float64, float64) {
		return (float64(p.X-minX) + 0.5) * charWidth, (float64(p.Y-minY) + 0.5) * charHeight
	}

	// Edges behind nodes, same z-order as the terminal.
	for _, e := range g.Edges {
		drawEdgePNG(dc, g, e, px)
	}
	for _, n := range g.Nodes {
		drawNodePNG(dc, n, minX, minY, charWidth, charHeight)
	}

	return dc.SavePNG(filename)
}

func drawEdgePNG(dc *gg.Context, g Graph, e Edge, px func(point) (float64, float64)) {
	from, corner, to, ok := edgePath(g, e)
	if !ok {
		return
	}
	dc.SetColor(strokeColor(e.Stroke))
	dc.SetLineWidth(1.5)

	x1, y1 := px(from)
	cx, cy := px(corner)
	x2, y2 := px(to)
	dc.DrawLine(x1, y1, cx, cy)
	dc.DrawLine(cx, cy, x2, y2)
	dc.Stroke()

	if e.ArrowFrom {
		drawArrowheadPNG(dc, cx, cy, x1, y1)
	}
	if e.ArrowTo {
		drawArrowheadPNG(dc, cx, cy, x2, y2)
	}
	dc.SetColor(color.Black)
}

// drawArrowheadPNG draws the tip at (tx, ty) for a line arriving from
// (fx, fy).
func drawArrowheadPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx := tx - fx
	dy := ty - fy
	length := 8.0
	wing := 4.0
	var bx, by, wx, wy float64
	switch {
	case dx > 0:
		bx, by, wx, wy = -length, 0, 0, wing
	case dx < 0:
		bx, by, wx, wy = length, 0, 0, wing
	case dy > 0:
		bx, by, wx, wy = 0, -length, wing, 0
	default:
		bx, by, wx, wy = 0, length, wing, 0
	}
	dc.DrawLine(tx, ty, tx+bx+wx, ty+by+wy)
	dc.DrawLine(tx, ty, tx+bx-wx, ty+by-wy)
	dc.Stroke()
}

func drawNodePNG(dc *gg.Context, n Node, minX, minY int, charWidth, charHeight float64) {
	x, y, w, h := cellRect(n)
	px := float64(x-minX) * charWidth
	py := float64(y-minY) * charHeight
	pw := float64(w) * charWidth
	ph := float64(h) * charHeight

	dc.SetColor(strokeColor(n.Color))
	dc.SetLineWidth(2)
	switch n.Kind {
	case ShapeCircle:
		dc.DrawEllipse(px+pw/2, py+ph/2, pw/2, ph/2)
	case ShapeDiamond:
		dc.MoveTo(px+pw/2, py)
		dc.LineTo(px+pw, py+ph/2)
		dc.LineTo(px+pw/2, py+ph)
		dc.LineTo(px, py+ph/2)
		dc.ClosePath()
	case ShapeArrow:
		notch := charWidth * 1.5
		dc.MoveTo(px, py)
		dc.LineTo(px+pw-notch, py)
		dc.LineTo(px+pw, py+ph/2)
		dc.LineTo(px+pw-notch, py+ph)
		dc.LineTo(px, py+ph)
		dc.ClosePath()
	default:
		dc.DrawRectangle(px, py, pw, ph)
	}
	dc.Stroke()

	dc.SetColor(color.Black)
	for li, line := range n.Lines() {
		tx := px + charWidth
		ty := py + charHeight*float64(li+1) + charHeight*0.75
		if ty > py+ph-charHeight/2 {
			break
		}
		dc.DrawString(line, tx, ty)
	}
}

// strokeColor maps the terminal palette index to export colors.
func strokeColor(index int) color.Color {
	palette := []color.RGBA{
		{200, 40, 40, 255},  // red
		{40, 160, 40, 255},  // green
		{190, 160, 0, 255},  // yellow
		{40, 70, 200, 255},  // blue
		{170, 40, 170, 255}, // magenta
		{0, 160, 170, 255},  // cyan
		{255, 90, 90, 255},  // bright red
		{230, 200, 40, 255}, // bright yellow
	}
	if index < 0 || index >= len(palette) {
		return color.Black
	}
	return palette[index]
}
