package main

const (
	layoutGapX = 4
	layoutGapY = 1
)

// successors returns the node indexes reachable over one outgoing edge, in
// edge order, each node at most once.
func successors(g Graph, nodeID string) []int {
	var out []int
	seen := map[string]bool{nodeID: true} // skip self-loops
	for _, e := range g.Edges {
		if e.Source != nodeID || seen[e.Target] {
			continue
		}
		if i := g.NodeByID(e.Target); i >= 0 {
			seen[e.Target] = true
			out = append(out, i)
		}
	}
	return out
}

// LayoutSubtree arranges every node reachable from root into columns:
// successors sit one gap right of their parent, siblings stack vertically,
// centered on the parent's midline. Cycles are broken at the first revisit,
// so the operation terminates on any graph. Like every mutation this is
// pure: the input graph is untouched.
func LayoutSubtree(g Graph, rootID string) Graph {
	if g.NodeByID(rootID) < 0 {
		return g
	}
	out := g.Clone()
	visited := map[string]bool{rootID: true}
	layoutChildren(&out, rootID, visited)
	return out
}

func layoutChildren(g *Graph, parentID string, visited map[string]bool) {
	pi := g.NodeByID(parentID)
	parent := g.Nodes[pi]

	var children []int
	for _, ci := range successors(*g, parentID) {
		if visited[g.Nodes[ci].ID] {
			continue
		}
		visited[g.Nodes[ci].ID] = true
		children = append(children, ci)
	}
	if len(children) == 0 {
		return
	}

	heights := make([]int, len(children))
	total := 0
	for i, ci := range children {
		heights[i] = subtreeHeight(*g, g.Nodes[ci].ID, map[string]bool{parentID: true})
		total += heights[i]
		if i < len(children)-1 {
			total += layoutGapY
		}
	}

	childX := parent.X + float64(parent.Width+layoutGapX)
	currentY := parent.Y + float64(parent.Height)/2 - float64(total)/2
	for i, ci := range children {
		g.Nodes[ci].X = childX
		g.Nodes[ci].Y = currentY + float64(heights[i]-g.Nodes[ci].Height)/2
		currentY += float64(heights[i] + layoutGapY)
		layoutChildren(g, g.Nodes[ci].ID, visited)
	}
}

// subtreeHeight is the vertical span a node's subtree needs: the larger of
// the node's own height and its children's stacked heights.
func subtreeHeight(g Graph, nodeID string, visited map[string]bool) int {
	if visited[nodeID] {
		return 0
	}
	visited[nodeID] = true
	i := g.NodeByID(nodeID)
	if i < 0 {
		return 0
	}
	own := g.Nodes[i].Height

	total := 0
	count := 0
	for _, ci := range successors(g, nodeID) {
		h := subtreeHeight(g, g.Nodes[ci].ID, visited)
		if h == 0 {
			continue
		}
		total += h
		count++
	}
	if count > 1 {
		total += (count - 1) * layoutGapY
	}
	if total > own {
		return total
	}
	return own
}
