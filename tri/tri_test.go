package tri

import "testing"

func TestTAndRootRoundTrip(t *testing.T) {
	for k := 0; k < 500; k++ {
		n := T(k)
		if got := Root(n); got != k {
			t.Errorf("Root(T(%d)=%d) = %d; want %d", k, n, got, k)
		}
	}
}

func TestRootBounds(t *testing.T) {
	for n := 0; n < 50000; n++ {
		r := Root(n)
		if T(r) > n {
			t.Fatalf("Root(%d) = %d but T(%d) = %d > %d", n, r, r, T(r), n)
		}
		if T(r+1) <= n {
			t.Fatalf("Root(%d) = %d but T(%d+1) = %d <= %d", n, r, r, T(r+1), n)
		}
	}
}

func TestIsTriangular(t *testing.T) {
	triangulars := map[int]bool{}
	for k := 0; k < 200; k++ {
		triangulars[T(k)] = true
	}

	for n := 0; n < 20100; n++ {
		want := triangulars[n]
		if got := IsTriangular(n); got != want {
			t.Errorf("IsTriangular(%d) = %v; want %v", n, got, want)
		}
	}
}

func TestSpanOfWidth(t *testing.T) {
	for k := 0; k < 200; k++ {
		s := SpanOf(k)
		if got, want := s.Width(), k+1; got != want {
			t.Errorf("SpanOf(%d).Width() = %d; want %d", k, got, want)
		}
		if s.Beg != T(k) || s.End != T(k+1) {
			t.Errorf("SpanOf(%d) = %+v; want {%d, %d}", k, s, T(k), T(k+1))
		}
	}
}

func TestNextMatchesSpanOf(t *testing.T) {
	for k := 0; k < 200; k++ {
		got := SpanOf(k).Next()
		want := SpanOf(k + 1)
		if got != want {
			t.Errorf("SpanOf(%d).Next() = %+v; want %+v", k, got, want)
		}
	}
}

func TestPrevMatchesSpanOf(t *testing.T) {
	for k := 1; k < 200; k++ {
		got := SpanOf(k).Prev()
		want := SpanOf(k - 1)
		if got != want {
			t.Errorf("SpanOf(%d).Prev() = %+v; want %+v", k, got, want)
		}
	}
}

func TestZeroValues(t *testing.T) {
	if T(0) != 0 {
		t.Errorf("T(0) = %d; want 0", T(0))
	}
	if Root(0) != 0 {
		t.Errorf("Root(0) = %d; want 0", Root(0))
	}
	if !IsTriangular(0) {
		t.Errorf("IsTriangular(0) = false; want true")
	}
}
