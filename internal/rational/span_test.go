package rational

import "testing"

func TestCyclesSplitsAtIntegerBoundaries(t *testing.T) {
	s := NewSpan(New(1, 2), New(5, 2)) // 0.5 .. 2.5
	cycles := s.Cycles()
	want := []Span{
		{New(1, 2), FromInt(1)},
		{FromInt(1), FromInt(2)},
		{FromInt(2), New(5, 2)},
	}
	if len(cycles) != len(want) {
		t.Fatalf("got %d cycles, want %d: %v", len(cycles), len(want), cycles)
	}
	for i, c := range cycles {
		if !c.Begin.Equal(want[i].Begin) || !c.End.Equal(want[i].End) {
			t.Fatalf("cycle %d = %v, want %v", i, c, want[i])
		}
	}
}

func TestCyclesSingleCycle(t *testing.T) {
	s := NewSpan(FromInt(0), FromInt(1))
	cycles := s.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
}

func TestIntersection(t *testing.T) {
	a := NewSpan(FromInt(0), New(1, 2))
	b := NewSpan(New(1, 4), FromInt(1))
	inter, ok := a.Intersection(b)
	if !ok {
		t.Fatalf("expected overlap")
	}
	if !inter.Begin.Equal(New(1, 4)) || !inter.End.Equal(New(1, 2)) {
		t.Fatalf("intersection = %v, want [1/4, 1/2)", inter)
	}
}

func TestIntersectionNoOverlap(t *testing.T) {
	a := NewSpan(FromInt(0), FromInt(1))
	b := NewSpan(FromInt(2), FromInt(3))
	if _, ok := a.Intersection(b); ok {
		t.Fatalf("expected no overlap")
	}
}

func TestIntersectionTouchingIsEmptyButValid(t *testing.T) {
	a := NewSpan(FromInt(0), FromInt(1))
	b := NewSpan(FromInt(1), FromInt(2))
	inter, ok := a.Intersection(b)
	if !ok {
		t.Fatalf("touching spans should still report a valid (empty) intersection")
	}
	if !inter.Empty() {
		t.Fatalf("touching intersection should be empty, got %v", inter)
	}
}
