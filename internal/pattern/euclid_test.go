package pattern

import (
	"reflect"
	"testing"
)

func TestBjorklund38(t *testing.T) {
	got := Bjorklund(3, 8, 0)
	want := []bool{true, false, false, true, false, false, true, false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Bjorklund(3,8,0) = %v, want %v", got, want)
	}
}

func TestBjorklund58(t *testing.T) {
	got := Bjorklund(5, 8, 0)
	count := 0
	for _, b := range got {
		if b {
			count++
		}
	}
	if count != 5 {
		t.Fatalf("expected 5 onsets, got %d", count)
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 steps, got %d", len(got))
	}
}

func TestBjorklundRotation(t *testing.T) {
	base := Bjorklund(3, 8, 0)
	rotated := Bjorklund(3, 8, 1)
	for i := range base {
		want := base[(i+1)%len(base)]
		if rotated[i] != want {
			t.Fatalf("rotated[%d] = %v, want %v", i, rotated[i], want)
		}
	}
}

func TestBjorklundEdgeCases(t *testing.T) {
	if got := Bjorklund(0, 4, 0); reflect.DeepEqual(got, []bool{false, false, false, false}) == false {
		t.Fatalf("Bjorklund(0,4,0) = %v", got)
	}
	if got := Bjorklund(4, 4, 0); reflect.DeepEqual(got, []bool{true, true, true, true}) == false {
		t.Fatalf("Bjorklund(4,4,0) = %v", got)
	}
}

func TestEuclidPatternOnsetsAtExpectedFractions(t *testing.T) {
	p := Euclid(3, 8, 0)
	haps := p.Query(fullCycle(0))
	if len(haps) != 3 {
		t.Fatalf("got %d haps, want 3", len(haps))
	}
	wantBegins := []int64{0, 3, 6}
	for i, h := range haps {
		got := h.Part.Begin.Mul(r(8, 1))
		if got.Floor() != wantBegins[i] {
			t.Fatalf("hap %d begins at %v*8=%v, want %d", i, h.Part.Begin, got, wantBegins[i])
		}
	}
}
