package dag

// detectCycles scans parent edges depth-first with white/gray/black coloring
// and returns a [*CycleError] for the first back-edge found. Roots of the
// scan are visited in id order so the reported commit is deterministic.
//
// The walk keeps an explicit stack: linear histories are tens of thousands of
// commits deep.
func detectCycles(g *Graph) error {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   ID
		next int // index of the next parent to visit
	}

	color := make(map[ID]int, len(g.nodes))
	var stack []frame

	for _, start := range g.ids {
		if color[start] != white {
			continue
		}
		color[start] = gray
		stack = append(stack[:0], frame{id: start})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			parents := g.nodes[top.id].Parents
			if top.next == len(parents) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			p := parents[top.next]
			top.next++

			switch color[p] {
			case white:
				color[p] = gray
				stack = append(stack, frame{id: p})
			case gray:
				return &CycleError{ID: p}
			}
		}
	}
	return nil
}
