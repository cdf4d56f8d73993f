package cyclist

import (
	"math"
	"testing"

	"github.com/tidalforge/cyclist/internal/notation"
)

func TestProcessProducesNonSilentBlockForSineAtom(t *testing.T) {
	c := New(8000, nil)
	p, err := notation.Compile("sine")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c.SetPattern(p)
	c.SetCPS(1)

	dst := make([]float32, 2*4000)
	c.Process(dst)

	var maxAbs float32
	for _, s := range dst {
		if s < 0 {
			s = -s
		}
		if s > maxAbs {
			maxAbs = s
		}
	}
	if maxAbs == 0 {
		t.Fatalf("expected non-silent output from sine voice")
	}
}

func TestProcessAdvancesCursorByBlockCycles(t *testing.T) {
	c := New(1000, nil)
	p, err := notation.Compile("~")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c.SetPattern(p)
	c.SetCPS(1)

	dst := make([]float32, 2*500)
	c.Process(dst)

	if math.Abs(c.cursor.Float64()-0.5) > 1e-9 {
		t.Fatalf("cursor = %v, want 0.5", c.cursor.Float64())
	}
}

func TestPanCurveNoOpAtHalf(t *testing.T) {
	c := New(8000, nil)
	o := c.getOrCreateOrbit(1)
	_ = o
	theta := 0.5 * math.Pi / 2
	l := math.Cos(theta)
	r := math.Sin(theta)
	if math.Abs(l-r) > 1e-9 {
		t.Fatalf("pan=0.5 should be equal-power centre: l=%v r=%v", l, r)
	}
}

func TestMissingSampleProducesNoVoice(t *testing.T) {
	c := New(8000, nil)
	p, err := notation.Compile("nonexistentsample")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c.SetPattern(p)
	dst := make([]float32, 2*100)
	c.Process(dst)
	if len(c.voices) != 0 {
		t.Fatalf("expected no voices spawned for a missing sample with nil bank")
	}
}
