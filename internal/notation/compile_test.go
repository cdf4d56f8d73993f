package notation

import (
	"testing"

	"github.com/tidalforge/cyclist/internal/pattern"
	"github.com/tidalforge/cyclist/internal/rational"
)

func queryCycle(p pattern.Pattern, n int64) []pattern.Hap {
	return p.Query(pattern.Query{Span: rational.NewSpan(rational.FromInt(n), rational.FromInt(n+1))})
}

func TestCompileSequenceThreeEqualSteps(t *testing.T) {
	p, err := Compile("bd sd hh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	haps := queryCycle(p, 0)
	if len(haps) != 3 {
		t.Fatalf("got %d haps, want 3", len(haps))
	}
	want := []string{"bd", "sd", "hh"}
	for i, h := range haps {
		if h.Value != want[i] {
			t.Fatalf("hap %d = %v, want %v", i, h.Value, want[i])
		}
	}
}

func TestCompileStackPlaysTogether(t *testing.T) {
	p, err := Compile("bd, hh hh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	haps := queryCycle(p, 0)
	if len(haps) != 3 {
		t.Fatalf("got %d haps, want 3 (1 bd + 2 hh)", len(haps))
	}
}

func TestCompileElongateExtendsDuration(t *testing.T) {
	p, err := Compile("bd _ sd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	haps := queryCycle(p, 0)
	if len(haps) != 2 {
		t.Fatalf("got %d haps, want 2", len(haps))
	}
	// bd should occupy 2/3 of the cycle, sd the remaining 1/3.
	if !haps[0].Part.End.Equal(rational.New(2, 3)) {
		t.Fatalf("first hap ends at %v, want 2/3", haps[0].Part.End)
	}
}

func TestCompileAltCyclesThroughElements(t *testing.T) {
	p, err := Compile("<bd sd hh>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"bd", "sd", "hh", "bd"}
	for i, w := range want {
		haps := queryCycle(p, int64(i))
		if haps[0].Value != w {
			t.Fatalf("cycle %d = %v, want %v", i, haps[0].Value, w)
		}
	}
}

func TestCompileAltStarFourMatchesSpecExample(t *testing.T) {
	p, err := Compile("<bd sd hh>*4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	haps := queryCycle(p, 0)
	want := []string{"bd", "sd", "hh", "bd"}
	if len(haps) != 4 {
		t.Fatalf("got %d haps, want 4", len(haps))
	}
	for i, h := range haps {
		if h.Value != want[i] {
			t.Fatalf("hap %d = %v, want %v", i, h.Value, want[i])
		}
	}
}

func TestCompileAltElongateInheritsPreviousCycle(t *testing.T) {
	p, err := Compile("<7 _ _ 6>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"7", "7", "7", "6"}
	for i, w := range want {
		haps := queryCycle(p, int64(i))
		if haps[0].Value != w {
			t.Fatalf("cycle %d = %v, want %v", i, haps[0].Value, w)
		}
	}
}

func TestCompileReplicateInline(t *testing.T) {
	p, err := Compile("bd!2 sd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	haps := queryCycle(p, 0)
	if len(haps) != 3 {
		t.Fatalf("got %d haps, want 3", len(haps))
	}
	want := []string{"bd", "bd", "sd"}
	for i, h := range haps {
		if h.Value != want[i] {
			t.Fatalf("hap %d = %v, want %v", i, h.Value, want[i])
		}
	}
}

func TestCompileSampleIndexAtom(t *testing.T) {
	p, err := Compile("bd:3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	haps := queryCycle(p, 0)
	m := haps[0].Value.(pattern.ControlMap)
	if m["s"] != "bd" || m["n"] != 3 {
		t.Fatalf("value = %+v, want {s:bd n:3}", m)
	}
}

func TestCompileGroupIsOneStep(t *testing.T) {
	p, err := Compile("[bd sd] hh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	haps := queryCycle(p, 0)
	if len(haps) != 3 {
		t.Fatalf("got %d haps, want 3", len(haps))
	}
	if !haps[0].Part.End.Equal(rational.New(1, 4)) {
		t.Fatalf("first group element ends at %v, want 1/4", haps[0].Part.End)
	}
	if haps[2].Value != "hh" || !haps[2].Part.Begin.Equal(rational.New(1, 2)) {
		t.Fatalf("hh hap = %+v, want begin 1/2", haps[2])
	}
}
