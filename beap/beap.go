// Package beap implements a bi-parental heap: a priority container whose
// backing array is laid out as a triangular grid of rows, giving every
// node up to two parents and two children. Unlike a binary heap, a beap
// supports membership search in O(√n) in addition to the usual O(√n)
// insert, erase, and pop.
package beap

import (
	"github.com/beapdb/beap/tri"
	"golang.org/x/exp/constraints"
)

// Compare is a three-way comparator: negative if a is ordered before b,
// zero if they are equal, positive if a is ordered after b.
type Compare[V any] func(a, b V) int

// Beap is a max-oriented bi-parental heap: Top returns the greatest
// element according to Compare. Use a comparator that inverts the order
// for a min-beap. The zero value is not usable; construct with New,
// NewOrdered, Of, or OfOrdered.
//
// Beap is not safe for concurrent use. A mutation in progress on one
// goroutine while another reads or mutates the same Beap is undefined,
// the same discipline container/heap and this repository's teacher
// require of their own callers.
type Beap[V any] struct {
	data []V
	cmp  Compare[V]
	end  tri.Span // span of the last (possibly partial) row
}

// New creates an empty Beap ordered by cmp.
func New[V any](cmp Compare[V]) *Beap[V] {
	return &Beap[V]{cmp: cmp}
}

// NewOrdered creates an empty Beap over a builtin ordered type, using its
// natural less-than order.
func NewOrdered[V constraints.Ordered]() *Beap[V] {
	return New[V](orderedCompare[V]())
}

// Of builds a Beap from an existing slice of values, copying them. It
// runs in O(n√n): no linear-time bulk heapify is known for beaps.
func Of[V any](cmp Compare[V], values []V) *Beap[V] {
	b := &Beap[V]{cmp: cmp}
	n := len(values)
	if n == 0 {
		return b
	}

	b.reserve(targetCapacity(n))
	b.data = append(b.data, values...)

	for i := 0; i < n; i++ {
		if i == b.end.End {
			b.end = b.end.Next()
		}
		if i > 0 {
			b.bubbleUp(i, b.end.Width()-1)
		}
	}
	return b
}

// OfOrdered is Of specialised to a builtin ordered type's natural order.
func OfOrdered[V constraints.Ordered](values []V) *Beap[V] {
	return Of(orderedCompare[V](), values)
}

func orderedCompare[V constraints.Ordered]() Compare[V] {
	return func(a, b V) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

func targetCapacity(n int) int {
	if n == 0 {
		return 0
	}
	return tri.SpanOf(tri.Root(n - 1)).End
}

// Size returns the number of elements held.
func (b *Beap[V]) Size() int { return len(b.data) }

// Capacity returns the size of the underlying buffer.
func (b *Beap[V]) Capacity() int { return cap(b.data) }

// Empty reports whether the beap holds no elements.
func (b *Beap[V]) Empty() bool { return len(b.data) == 0 }

// End returns the sentinel index Find and Erase use to report absence:
// the current last row's one-past-the-end index.
func (b *Beap[V]) End() int { return b.end.End }

// Clear removes all elements.
func (b *Beap[V]) Clear() {
	b.data = b.data[:0]
	b.end = tri.Span{}
}

// Swap exchanges the contents of b and other.
func (b *Beap[V]) Swap(other *Beap[V]) {
	b.data, other.data = other.data, b.data
	b.end, other.end = other.end, b.end
	b.cmp, other.cmp = other.cmp, b.cmp
}

// Top returns the maximum element. It is undefined behaviour to call Top
// on an empty beap.
func (b *Beap[V]) Top() V { return b.data[0] }

// Bottom returns the minimum element, found by a linear scan of the last
// row and, when the last row is only partly filled, of the row above it,
// whose right-hand elements then have no children (O(√n), since each row
// has O(√n) elements). It is undefined behaviour to call Bottom on an
// empty beap.
func (b *Beap[V]) Bottom() V {
	min := b.end.Beg
	if len(b.data) != b.end.End {
		min = b.end.Prev().Beg
	}
	for i := min + 1; i < len(b.data); i++ {
		if b.cmp(b.data[i], b.data[min]) < 0 {
			min = i
		}
	}
	return b.data[min]
}

// Pop removes and returns the maximum element. It is undefined behaviour
// to call Pop on an empty beap.
func (b *Beap[V]) Pop() V {
	top := b.data[0]
	b.EraseAt(0)
	return top
}

// Insert adds v and returns the linear index it settles at once the
// invariant is restored.
func (b *Beap[V]) Insert(v V) int {
	i := len(b.data)
	if i == b.end.End {
		b.end = b.end.Next()
		b.reserve(b.end.End)
	}

	b.data = append(b.data, v)
	return b.bubbleUp(i, b.end.Width()-1)
}

// reserve grows the buffer's capacity to at least target, row-aligned:
// capacity only ever grows to exactly the size of a whole new row.
func (b *Beap[V]) reserve(target int) {
	if cap(b.data) >= target {
		return
	}
	grown := make([]V, len(b.data), target)
	copy(grown, b.data)
	b.data = grown
}

// Find returns the index of some element equal to v, or End() if no
// such element exists.
func (b *Beap[V]) Find(v V) int {
	if len(b.data) == 0 {
		return b.End()
	}
	if i, ok := b.search(v); ok {
		return i
	}
	return b.End()
}

// Contains reports whether v is present.
func (b *Beap[V]) Contains(v V) bool {
	return b.Find(v) != b.End()
}

// Erase removes one element equal to v, if present. Absence is a silent
// no-op.
func (b *Beap[V]) Erase(v V) {
	i := b.Find(v)
	if i == b.End() {
		return
	}
	b.EraseAt(i)
}

// EraseAt removes the element at linear index i. It is undefined
// behaviour to call EraseAt with an out-of-range index.
func (b *Beap[V]) EraseAt(i int) {
	n := len(b.data)
	if n == 0 {
		return
	}

	last := n - 1
	moved := i != last
	if moved {
		b.data[i] = b.data[last]
	}
	b.data = b.data[:last]

	if last == b.end.Beg {
		b.end = b.end.Prev()
		b.shrinkIfOverAllocated()
	}

	if !moved {
		return
	}

	h := tri.Root(i)
	// Dual-direction restoration: the replacement value may be larger or
	// smaller than what used to occupy i, so try bubble-down first and
	// only bubble-up if the element did not move. Reversing this order
	// can mask violations near row boundaries.
	if j := b.bubbleDown(i, h); j == i {
		b.bubbleUp(i, h)
	}
}

// shrinkIfOverAllocated performs a one-shot compaction: when size drops
// to exactly half of capacity, reallocate to the current last row's
// capacity.
func (b *Beap[V]) shrinkIfOverAllocated() {
	size := len(b.data)
	if size == 0 {
		if cap(b.data) != 0 {
			b.data = nil
		}
		return
	}
	if cap(b.data)>>1 != size {
		return
	}
	shrunk := make([]V, size, b.end.End)
	copy(shrunk, b.data)
	b.data = shrunk
}

func (b *Beap[V]) swapAt(i, j int) {
	b.data[i], b.data[j] = b.data[j], b.data[i]
}

// bubbleUp restores the invariant upward from index i in row h,
// returning the index i finally settles at.
func (b *Beap[V]) bubbleUp(i, h int) int {
	s := tri.SpanOf(h)
	for h > 0 {
		p := s.Prev()
		d := i - s.Beg
		hasL := i != s.Beg
		hasR := d < h

		var l, r int
		if hasL {
			l = p.Beg + d - 1
		}
		if hasR {
			r = p.Beg + d
		}

		violatesL := hasL && b.cmp(b.data[i], b.data[l]) > 0
		violatesR := hasR && b.cmp(b.data[i], b.data[r]) > 0

		switch {
		case violatesL && violatesR:
			// Swap with the smaller parent: the new, larger value still
			// dominates what used to be there, and the other parent
			// remains >= the smaller one.
			if b.cmp(b.data[l], b.data[r]) <= 0 {
				b.swapAt(i, l)
				i = l
			} else {
				b.swapAt(i, r)
				i = r
			}
		case violatesL:
			b.swapAt(i, l)
			i = l
		case violatesR:
			b.swapAt(i, r)
			i = r
		default:
			return i
		}

		s = p
		h--
	}
	return i
}

// bubbleDown restores the invariant downward from index i in row h,
// returning the index i finally settles at.
func (b *Beap[V]) bubbleDown(i, h int) int {
	s := tri.SpanOf(h)
	maxH := b.lastRowIndex()
	n := len(b.data)

	for h < maxH {
		c := s.Next()
		d := i - s.Beg
		lc := c.Beg + d
		rc := lc + 1

		hasL := lc < n
		hasR := rc < n

		violatesL := hasL && b.cmp(b.data[lc], b.data[i]) > 0
		violatesR := hasR && b.cmp(b.data[rc], b.data[i]) > 0

		switch {
		case violatesL && violatesR:
			if b.cmp(b.data[lc], b.data[rc]) >= 0 {
				b.swapAt(i, lc)
				i = lc
			} else {
				b.swapAt(i, rc)
				i = rc
			}
		case violatesL:
			b.swapAt(i, lc)
			i = lc
		case violatesR:
			b.swapAt(i, rc)
			i = rc
		default:
			return i
		}

		s = c
		h++
	}
	return i
}

func (b *Beap[V]) lastRowIndex() int { return b.end.Width() - 1 }

// search implements the O(√n)-ish monotone staircase walk: it starts at
// the top-right corner of the last fully-populated row (row == col) and,
// at each cell, moves toward a larger target via its diagonal (left)
// parent and toward a smaller target via its same-column (left) child,
// falling back to stepping one column left in the same row when that
// child is out of range. It reports absence when the needed move does
// not exist: a larger target at column 0, or a smaller target at column
// 0 with no child below.
//
// The two move families are deliberately asymmetric rather than simple
// inverses of one another: pairing "down" with "up" along the same
// parent/child edge produces a two-cell cycle whenever the cell in
// between is neither a match nor a dead end. Every step either lowers
// col or raises row-col, and neither ever moves back, so the search
// always terminates without revisiting a cell.
func (b *Beap[V]) search(v V) (int, bool) {
	n := len(b.data)
	row := b.lastRowIndex()
	if n != b.end.End {
		row--
	}
	col := row

	for {
		idx := tri.T(row) + col

		switch cmp := b.cmp(v, b.data[idx]); {
		case cmp == 0:
			return idx, true
		case cmp > 0:
			// Target is larger: climb the diagonal parent. At column 0
			// there is none, so the target is absent.
			if col == 0 {
				return 0, false
			}
			row--
			col--
		default:
			// Target is smaller: descend the same column, or narrow the
			// row from the right when that child doesn't exist.
			if child := tri.T(row+1) + col; child < n {
				row++
			} else if col > 0 {
				col--
			} else {
				return 0, false
			}
		}
	}
}

// breadthFirstSearch is a brute-force O(n) linear scan, kept only as a
// test oracle for search. It must never be reachable from the public
// API on well-formed inputs.
func (b *Beap[V]) breadthFirstSearch(v V) int {
	for i, x := range b.data {
		if b.cmp(x, v) == 0 {
			return i
		}
	}
	return b.End()
}
