package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Diagram files are line based, in the same spirit as the terminal grid:
//
//	FLOWCHART v2
//	NODES:<n>
//	id,kind,x,y,w,h,color,label        (label is the tail, \n escaped)
//	EDGES:<m>
//	id,source,sourceHandle,target,targetHandle,stroke,arrowFlags
//	PAN:x,y                            (optional)
//
// Node and edge ids are uuids and never contain commas, so the label can
// absorb any remaining commas on its line.

const fileHeader = "FLOWCHART v2"

// Serialize encodes a graph plus the buffer's pan offset.
func Serialize(g Graph, panX, panY int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", fileHeader)

	fmt.Fprintf(&buf, "NODES:%d\n", len(g.Nodes))
	for _, n := range g.Nodes {
		label := strings.ReplaceAll(n.Label, "\n", "\\n")
		fmt.Fprintf(&buf, "%s,%s,%s,%s,%d,%d,%d,%s\n",
			n.ID, n.Kind,
			strconv.FormatFloat(n.X, 'g', -1, 64),
			strconv.FormatFloat(n.Y, 'g', -1, 64),
			n.Width, n.Height, n.Color, label)
	}

	fmt.Fprintf(&buf, "EDGES:%d\n", len(g.Edges))
	for _, e := range g.Edges {
		arrowFlags := 0
		if e.ArrowFrom {
			arrowFlags |= 1
		}
		if e.ArrowTo {
			arrowFlags |= 2
		}
		fmt.Fprintf(&buf, "%s,%s,%s,%s,%s,%d,%d\n",
			e.ID, e.Source, e.SourceHandle, e.Target, e.TargetHandle,
			e.Stroke, arrowFlags)
	}

	fmt.Fprintf(&buf, "PAN:%d,%d\n", panX, panY)
	return buf.Bytes()
}

// Deserialize is the inverse of Serialize. Any structural defect, including
// edges referencing nodes that are not in the file, yields
// ErrMalformedDiagram; no partial graph is ever returned.
func Deserialize(data []byte) (Graph, int, int, error) {
	var g Graph
	panX, panY := 0, 0

	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() || scanner.Text() != fileHeader {
		return Graph{}, 0, 0, fmt.Errorf("%w: missing %s header", ErrMalformedDiagram, fileHeader)
	}

	nodeCount, err := readCount(scanner, "NODES:")
	if err != nil {
		return Graph{}, 0, 0, err
	}
	for i := 0; i < nodeCount; i++ {
		if !scanner.Scan() {
			return Graph{}, 0, 0, fmt.Errorf("%w: missing node record %d", ErrMalformedDiagram, i)
		}
		n, err := parseNodeLine(scanner.Text())
		if err != nil {
			return Graph{}, 0, 0, err
		}
		g.Nodes = append(g.Nodes, n)
	}

	edgeCount, err := readCount(scanner, "EDGES:")
	if err != nil {
		return Graph{}, 0, 0, err
	}
	for i := 0; i < edgeCount; i++ {
		if !scanner.Scan() {
			return Graph{}, 0, 0, fmt.Errorf("%w: missing edge record %d", ErrMalformedDiagram, i)
		}
		e, err := parseEdgeLine(scanner.Text())
		if err != nil {
			return Graph{}, 0, 0, err
		}
		g.Edges = append(g.Edges, e)
	}

	// Optional trailing sections; only PAN is known today.
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "PAN:") {
			parts := strings.Split(strings.TrimPrefix(line, "PAN:"), ",")
			if len(parts) >= 2 {
				panX, _ = strconv.Atoi(parts[0])
				panY, _ = strconv.Atoi(parts[1])
			}
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return Graph{}, 0, 0, fmt.Errorf("%w: %v", ErrMalformedDiagram, err)
	}

	if err := g.Validate(); err != nil {
		return Graph{}, 0, 0, err
	}
	return g, panX, panY, nil
}

func readCount(scanner *bufio.Scanner, prefix string) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("%w: missing %s section", ErrMalformedDiagram, prefix)
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, prefix) {
		return 0, fmt.Errorf("%w: expected %s section, got %q", ErrMalformedDiagram, prefix, line)
	}
	count, err := strconv.Atoi(strings.TrimPrefix(line, prefix))
	if err != nil || count < 0 {
		return 0, fmt.Errorf("%w: bad %s count", ErrMalformedDiagram, prefix)
	}
	return count, nil
}

func parseNodeLine(line string) (Node, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 8 {
		return Node{}, fmt.Errorf("%w: bad node record %q", ErrMalformedDiagram, line)
	}
	kind, err := ParseShapeKind(parts[1])
	if err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrMalformedDiagram, err)
	}
	x, errX := strconv.ParseFloat(parts[2], 64)
	y, errY := strconv.ParseFloat(parts[3], 64)
	w, errW := strconv.Atoi(parts[4])
	h, errH := strconv.Atoi(parts[5])
	color, errC := strconv.Atoi(parts[6])
	if errX != nil || errY != nil || errW != nil || errH != nil || errC != nil {
		return Node{}, fmt.Errorf("%w: bad node geometry in %q", ErrMalformedDiagram, line)
	}
	label := strings.ReplaceAll(strings.Join(parts[7:], ","), "\\n", "\n")
	n := Node{
		ID:     parts[0],
		Kind:   kind,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Color:  color,
		Label:  label,
	}
	if n.ID == "" {
		return Node{}, fmt.Errorf("%w: node without id", ErrMalformedDiagram)
	}
	return n.FitSize(), nil
}

func parseEdgeLine(line string) (Edge, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return Edge{}, fmt.Errorf("%w: bad edge record %q", ErrMalformedDiagram, line)
	}
	srcHandle, err := ParseHandle(parts[2])
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedDiagram, err)
	}
	tgtHandle, err := ParseHandle(parts[4])
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedDiagram, err)
	}
	stroke, errS := strconv.Atoi(parts[5])
	arrowFlags, errA := strconv.Atoi(parts[6])
	if errS != nil || errA != nil {
		return Edge{}, fmt.Errorf("%w: bad edge attributes in %q", ErrMalformedDiagram, line)
	}
	e := Edge{
		ID:           parts[0],
		Source:       parts[1],
		SourceHandle: srcHandle,
		Target:       parts[3],
		TargetHandle: tgtHandle,
		Stroke:       stroke,
		ArrowFrom:    arrowFlags&1 != 0,
		ArrowTo:      arrowFlags&2 != 0,
	}
	if e.ID == "" || e.Source == "" || e.Target == "" {
		return Edge{}, fmt.Errorf("%w: edge with empty id field", ErrMalformedDiagram)
	}
	return e, nil
}

// SaveDiagram writes a diagram file.
func SaveDiagram(path string, g Graph, panX, panY int) error {
	return os.WriteFile(path, Serialize(g, panX, panY), 0644)
}

// LoadDiagram reads and validates a diagram file.
func LoadDiagram(path string) (Graph, int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, 0, 0, err
	}
	return Deserialize(data)
}
