package beap

import (
	"reflect"
	"testing"

	"github.com/beapdb/beap/tri"
)

// s1Values is a worked example of 24 values whose natural insertion
// order already happens to satisfy the beap invariant.
var s1Values = []int{
	72, 68, 63, 44, 62, 55, 33, 22, 32, 51, 13, 18,
	21, 19, 31, 11, 12, 14, 17, 9, 13, 3, 2, 10,
}

// checkInvariant walks every node and fails the test if any child
// exceeds its parent under b.cmp.
func checkInvariant[V any](t *testing.T, b *Beap[V]) {
	t.Helper()
	n := len(b.data)
	row := 0
	for tri.T(row) < n {
		s := tri.SpanOf(row)
		c := s.Next()
		for d := 0; d <= row; d++ {
			i := s.Beg + d
			if i >= n {
				break
			}
			for _, child := range []int{c.Beg + d, c.Beg + d + 1} {
				if child >= n {
					continue
				}
				if b.cmp(b.data[child], b.data[i]) > 0 {
					t.Fatalf("invariant violated: data[%d]=%v > parent data[%d]=%v", child, b.data[child], i, b.data[i])
				}
			}
		}
		row++
	}
}

func TestOfBuildsValidBeap(t *testing.T) {
	b := OfOrdered(s1Values)
	checkInvariant(t, b)

	if got, want := b.Size(), 24; got != want {
		t.Fatalf("Size() = %d; want %d", got, want)
	}
	if got, want := b.Top(), 72; got != want {
		t.Fatalf("Top() = %d; want %d", got, want)
	}
	if got, want := b.end, (tri.Span{Beg: 21, End: 28}); got != want {
		t.Fatalf("end span = %+v; want %+v (last row partially filled to 24)", got, want)
	}
}

func TestFindHitsAndMisses(t *testing.T) {
	b := OfOrdered(s1Values)

	for _, v := range []int{72, 33, 9, 3, 13, 63} {
		i := b.Find(v)
		if i == b.End() {
			t.Errorf("Find(%d) = End(); want a hit", v)
			continue
		}
		if b.data[i] != v {
			t.Errorf("Find(%d) returned index %d holding %d", v, i, b.data[i])
		}
	}

	for _, v := range []int{100, -5, 0, 73} {
		if b.Contains(v) {
			t.Errorf("Contains(%d) = true; want false", v)
		}
	}
}

func TestFindAgreesWithLinearScan(t *testing.T) {
	b := OfOrdered(s1Values)
	for v := -10; v < 80; v++ {
		gotFound := b.Contains(v)
		wantFound := b.breadthFirstSearch(v) != b.End()
		if gotFound != wantFound {
			t.Errorf("Contains(%d) = %v; linear scan says %v", v, gotFound, wantFound)
		}
	}
}

func TestInsertKeepsInvariant(t *testing.T) {
	b := OfOrdered(s1Values)
	for _, v := range []int{54, 0, 100, 44, 1} {
		b.Insert(v)
		checkInvariant(t, b)
		if !b.Contains(v) {
			t.Errorf("Contains(%d) = false right after Insert(%d)", v, v)
		}
	}
	if got, want := b.Size(), len(s1Values)+5; got != want {
		t.Errorf("Size() = %d; want %d", got, want)
	}
}

func TestEraseAbsentIsNoOp(t *testing.T) {
	b := OfOrdered(s1Values)
	before := append([]int(nil), b.data...)
	b.Erase(999)
	if got, want := b.Size(), len(s1Values); got != want {
		t.Errorf("Size() = %d after erasing an absent value; want %d", got, want)
	}
	if !reflect.DeepEqual(before, b.data) {
		t.Errorf("Erase of an absent value mutated the backing array")
	}
}

func TestErasePresentKeepsInvariant(t *testing.T) {
	for _, v := range s1Values {
		b := OfOrdered(s1Values)
		b.Erase(v)
		checkInvariant(t, b)
		if got, want := b.Size(), len(s1Values)-1; got != want {
			t.Fatalf("Erase(%d): Size() = %d; want %d", v, got, want)
		}
		if b.Contains(v) && countOccurrences(s1Values, v) == 1 {
			t.Fatalf("Erase(%d) removed nothing, element still present", v)
		}
	}
}

func countOccurrences(values []int, v int) int {
	n := 0
	for _, x := range values {
		if x == v {
			n++
		}
	}
	return n
}

func TestPopDescendingOrder(t *testing.T) {
	b := NewOrdered[int]()
	for _, v := range []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5} {
		b.Insert(v)
		checkInvariant(t, b)
	}

	want := []int{9, 6, 5, 5, 5, 4, 3, 3, 2, 1, 1}
	var got []int
	for !b.Empty() {
		got = append(got, b.Pop())
		checkInvariant(t, b)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("pop order = %v; want %v", got, want)
	}
	if !b.Empty() || b.Size() != 0 {
		t.Errorf("beap not empty after draining all elements")
	}
}

func TestEraseAtEveryIndexKeepsInvariant(t *testing.T) {
	for i := range s1Values {
		b := OfOrdered(s1Values)
		b.EraseAt(i)
		checkInvariant(t, b)
		if got, want := b.Size(), len(s1Values)-1; got != want {
			t.Fatalf("EraseAt(%d): Size() = %d; want %d", i, got, want)
		}
	}
}

func TestSizeCapacityRowAligned(t *testing.T) {
	b := NewOrdered[int]()
	for n := 1; n <= 50; n++ {
		b.Insert(n)
		row := tri.Root(b.Size() - 1)
		wantCap := tri.SpanOf(row).End
		if got := b.Capacity(); got < wantCap {
			t.Fatalf("after %d inserts, Capacity() = %d; want at least %d", n, got, wantCap)
		}
	}
}

func TestClearAndSwap(t *testing.T) {
	a := OfOrdered(s1Values)
	b := NewOrdered[int]()
	b.Insert(1)
	b.Insert(2)

	a.Swap(b)
	if got, want := a.Size(), 2; got != want {
		t.Errorf("after Swap, a.Size() = %d; want %d", got, want)
	}
	if got, want := b.Size(), len(s1Values); got != want {
		t.Errorf("after Swap, b.Size() = %d; want %d", got, want)
	}

	a.Clear()
	if !a.Empty() || a.End() != 0 {
		t.Errorf("Clear() left a non-empty: size=%d end=%d", a.Size(), a.End())
	}
}

func TestBottomIsMinimumOfLastRow(t *testing.T) {
	b := OfOrdered(s1Values)
	min := b.data[b.end.Beg]
	for i := b.end.Beg + 1; i < b.Size(); i++ {
		if b.data[i] < min {
			min = b.data[i]
		}
	}
	if got := b.Bottom(); got != min {
		t.Errorf("Bottom() = %d; want %d", got, min)
	}
}
