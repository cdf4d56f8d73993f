package rational

import "testing"

func TestReduction(t *testing.T) {
	r := New(4, 8)
	if r.Num() != 1 || r.Den() != 2 {
		t.Fatalf("New(4,8) = %d/%d, want 1/2", r.Num(), r.Den())
	}
}

func TestNegativeDenominatorNormalized(t *testing.T) {
	r := New(1, -2)
	if r.Num() != -1 || r.Den() != 2 {
		t.Fatalf("New(1,-2) = %d/%d, want -1/2", r.Num(), r.Den())
	}
}

func TestArithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(1, 3)
	if got := a.Add(b); !got.Equal(New(5, 6)) {
		t.Fatalf("1/2+1/3 = %v, want 5/6", got)
	}
	if got := a.Sub(b); !got.Equal(New(1, 6)) {
		t.Fatalf("1/2-1/3 = %v, want 1/6", got)
	}
	if got := a.Mul(b); !got.Equal(New(1, 6)) {
		t.Fatalf("1/2*1/3 = %v, want 1/6", got)
	}
	if got := a.Div(b); !got.Equal(New(3, 2)) {
		t.Fatalf("1/2 / 1/3 = %v, want 3/2", got)
	}
}

func TestFloorAndSam(t *testing.T) {
	cases := []struct {
		r    Rational
		want int64
	}{
		{New(3, 2), 1},
		{New(-3, 2), -2},
		{New(4, 2), 2},
		{New(-4, 2), -2},
	}
	for _, c := range cases {
		if got := c.r.Floor(); got != c.want {
			t.Fatalf("Floor(%v) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestCyclePos(t *testing.T) {
	r := New(7, 2) // 3.5
	pos := r.CyclePos()
	if !pos.Equal(New(1, 2)) {
		t.Fatalf("CyclePos(7/2) = %v, want 1/2", pos)
	}
}

func TestFromFloatRoundTrips(t *testing.T) {
	for _, f := range []float64{0.5, 0.25, 1.0 / 3.0, 2, -1.5} {
		r := FromFloat(f)
		if diff := r.Float64() - f; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("FromFloat(%v) = %v (%v), too far off", f, r, r.Float64())
		}
	}
}

func TestCmp(t *testing.T) {
	if New(1, 2).Cmp(New(2, 4)) != 0 {
		t.Fatalf("1/2 should equal 2/4")
	}
	if !New(1, 3).LessThan(New(1, 2)) {
		t.Fatalf("1/3 should be less than 1/2")
	}
}
