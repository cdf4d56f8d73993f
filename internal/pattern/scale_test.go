package pattern

import "testing"

func TestDegreeToSemitoneAscending(t *testing.T) {
	major := modes["major"]
	cases := []struct {
		d    int
		want int
	}{
		{0, 0}, {1, 2}, {6, 11}, {7, 12}, {8, 14},
	}
	for _, c := range cases {
		if got := degreeToSemitone(c.d, major); got != c.want {
			t.Fatalf("degree %d = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestDegreeToSemitoneNegativeMirrors(t *testing.T) {
	major := modes["major"]
	cases := []struct {
		d    int
		want int
	}{
		{-1, -1}, {-2, -3}, {-7, -12}, {-8, -13},
	}
	for _, c := range cases {
		if got := degreeToSemitone(c.d, major); got != c.want {
			t.Fatalf("degree %d = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestScaleCMajorDegreeZeroIsMiddleC(t *testing.T) {
	f := Scale("c:major")
	p := f(Pure(0))
	haps := p.Query(fullCycle(0))
	m := haps[0].Value.(ControlMap)
	if m["note"] != 60 { // (octave 4 + 1)*12 + 0, per spec.md §8 scenario 6
		t.Fatalf("note = %v, want 60", m["note"])
	}
}

func TestScaleDefaultsToMajorOnUnknownMode(t *testing.T) {
	f := Scale("c:bogus")
	p := f(Pure(2))
	haps := p.Query(fullCycle(0))
	m := haps[0].Value.(ControlMap)
	if m["note"] != 64 {
		t.Fatalf("note = %v, want 64 (major degree 2)", m["note"])
	}
}

func TestTransAddsSemitonesWhenNotePresent(t *testing.T) {
	p := Scale("c:major")(Pure(0))
	shifted := Trans(p, Pure(12))
	haps := shifted.Query(fullCycle(0))
	m := haps[0].Value.(ControlMap)
	if m["note"] != 72 {
		t.Fatalf("note = %v, want 72", m["note"])
	}
}

func TestTransPassesThroughWithoutNoteKey(t *testing.T) {
	p := Pure("bd")
	shifted := Trans(p, Pure(12))
	haps := shifted.Query(fullCycle(0))
	if haps[0].Value != "bd" {
		t.Fatalf("value = %v, want unchanged bd", haps[0].Value)
	}
}
