package aline

import (
	"cmp"
	"math"
)

// ranked is a near-optimal alignment with the order the walk found it in.
type ranked struct {
	al  Alignment
	seq int
}

// compare orders r before o when r scores higher, or scores the same
// (within tieTol) and was found earlier.
func (r ranked) compare(o ranked) int {
	if math.Abs(r.al.Score-o.al.Score) > tieTol {
		return cmp.Compare(o.al.Score, r.al.Score)
	}

	return cmp.Compare(r.seq, o.seq)
}

// rankHeap keeps the best k alignments seen so far; the root is the worst
// of them and is the one evicted when a better alignment arrives.
type rankHeap []ranked

// Len returns the number of held alignments.
func (h rankHeap) Len() int { return len(h) }

// Less puts the lower-ranked alignment nearer the root.
func (h rankHeap) Less(i, j int) bool { return h[i].compare(h[j]) > 0 }

// Swap swaps two elements in the heap.
func (h rankHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push is called by heap.Push; x must be a ranked.
func (h *rankHeap) Push(x any) { *h = append(*h, x.(ranked)) }

// Pop is called by heap.Pop.
func (h *rankHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
