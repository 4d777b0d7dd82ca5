package railway

import "container/heap"

// lanePool hands out lane indexes, always the lowest free one first.
type lanePool struct {
	free  intHeap
	width int
}

func (p *lanePool) acquire() int {
	if p.free.Len() > 0 {
		return heap.Pop(&p.free).(int)
	}
	p.width++
	return p.width - 1
}

func (p *lanePool) release(lane int) {
	heap.Push(&p.free, lane)
}

type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
