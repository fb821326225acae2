// Package tri implements the triangular-number index algebra that the
// beap package builds its row layout on: mapping a linear index into a
// flat array to the (row, column) coordinates of a triangular grid.
package tri

import "math"

// T returns the k-th triangular number, k(k+1)/2. T(0) is 0.
func T(k int) int {
	return k * (k + 1) / 2
}

// Root returns the largest k such that T(k) <= n. Root(T(k)) == k for
// every non-negative k.
func Root(n int) int {
	if n <= 0 {
		return 0
	}

	r := int((math.Sqrt(8*float64(n)+1) + 1) / 2)

	// isqrt via float64 can be off by one near the boundary for large n;
	// walk to the exact root rather than trust the float result blindly.
	for T(r) > n {
		r--
	}
	for T(r+1) <= n {
		r++
	}
	return r
}

// IsTriangular reports whether n is itself a triangular number.
func IsTriangular(n int) bool {
	return T(Root(n)) == n
}

// Span is the half-open range of linear indices occupied by one row of
// the triangular grid: row k occupies [Beg, End) with End-Beg == k+1.
type Span struct {
	Beg, End int
}

// SpanOf returns the span of row k.
func SpanOf(k int) Span {
	beg := T(k)
	return Span{Beg: beg, End: beg + k + 1}
}

// Width reports the number of elements in the span, i.e. the row index
// plus one.
func (s Span) Width() int {
	return s.End - s.Beg
}

// Next returns the span of the row directly below s.
func (s Span) Next() Span {
	beg := s.End
	return Span{Beg: beg, End: 2*beg - s.Beg + 1}
}

// Prev returns the span of the row directly above s. Prev is the
// inverse of Next; for row 0's span it returns the empty span {0, 0}.
func (s Span) Prev() Span {
	width := s.Width()
	return Span{Beg: s.Beg - (width - 1), End: s.Beg}
}
