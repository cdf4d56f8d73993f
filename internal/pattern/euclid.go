package pattern

import "github.com/tidalforge/cyclist/internal/rational"

// Bjorklund distributes pulses as evenly as possible across steps, then
// rotates the result by rotation steps. Grounded on the pairing-merge
// Euclidean-rhythm generator in
// other_examples/c96371fd_luisgizirian-lab-audio (cmd/euclidgen/main.go),
// generalised here to the textbook recursive Bjorklund folding algorithm so
// arbitrary (pulses, steps) pairs — not just the ones that file's table
// covered — reduce correctly.
func Bjorklund(pulses, steps, rotation int) []bool {
	if steps <= 0 {
		return nil
	}
	if pulses <= 0 {
		return make([]bool, steps)
	}
	if pulses >= steps {
		out := make([]bool, steps)
		for i := range out {
			out[i] = true
		}
		return rotateBools(out, rotation)
	}

	a := make([][]bool, pulses)
	for i := range a {
		a[i] = []bool{true}
	}
	b := make([][]bool, steps-pulses)
	for i := range b {
		b[i] = []bool{false}
	}

	for len(b) > 1 {
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		newA := make([][]bool, 0, n)
		for i := 0; i < n; i++ {
			merged := append(append([]bool{}, a[i]...), b[i]...)
			newA = append(newA, merged)
		}
		var remainder [][]bool
		if len(a) > n {
			remainder = a[n:]
		} else {
			remainder = b[n:]
		}
		a = newA
		b = remainder
	}

	var out []bool
	for _, g := range a {
		out = append(out, g...)
	}
	for _, g := range b {
		out = append(out, g...)
	}
	return rotateBools(out, rotation)
}

func rotateBools(pattern []bool, rotation int) []bool {
	steps := len(pattern)
	if steps == 0 {
		return pattern
	}
	r := ((rotation % steps) + steps) % steps
	if r == 0 {
		return pattern
	}
	out := make([]bool, steps)
	for i := 0; i < steps; i++ {
		out[i] = pattern[(i+r)%steps]
	}
	return out
}

// Euclid builds a Pattern of "true"-valued haps at the onsets Bjorklund
// selects, each occupying 1/steps of the cycle, and Silence elsewhere.
func Euclid(pulses, steps, rotation int) Pattern {
	onsets := Bjorklund(pulses, steps, rotation)
	items := make([]Weighted, len(onsets))
	for i, on := range onsets {
		p := Silence()
		if on {
			p = Pure(true)
		}
		items[i] = Weighted{Weight: rational.FromInt(1), Pattern: p}
	}
	return TimeCat(items)
}
