// Package rational implements exact ratio arithmetic used to track cycle
// position without the drift float64 would accumulate over a long-running
// session.
package rational

import "fmt"

// Rational is a reduced fraction with a strictly positive denominator.
type Rational struct {
	num, den int64
}

// Zero is the additive identity, cycle position 0.
var Zero = Rational{0, 1}

// New builds a reduced Rational. den == 0 is treated as 1 (callers never
// construct a genuine zero-denominator ratio in this codebase).
func New(num, den int64) Rational {
	if den == 0 {
		den = 1
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g == 0 {
		g = 1
	}
	return Rational{num / g, den / g}
}

// FromInt lifts an integer cycle count into a Rational.
func FromInt(n int64) Rational { return Rational{n, 1} }

// FromFloat approximates f as a Rational using a bounded continued-fraction
// search. Used only where a real-valued input (e.g. a cps derived from a
// floating sample rate) must cross into exact cycle arithmetic.
func FromFloat(f float64) Rational {
	if f == 0 {
		return Zero
	}
	neg := f < 0
	if neg {
		f = -f
	}
	const maxDen = int64(1) << 30
	var h1, h2, k1, k2 int64 = 1, 0, 0, 1
	x := f
	for i := 0; i < 40; i++ {
		a := int64(x)
		h1, h2 = a*h1+h2, h1
		k1, k2 = a*k1+k2, k1
		if k1 > maxDen || k1 <= 0 {
			break
		}
		frac := x - float64(a)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		k1 = 1
	}
	if neg {
		h1 = -h1
	}
	return New(h1, k1)
}

func (r Rational) Num() int64 { return r.num }
func (r Rational) Den() int64 { return r.den }

func (r Rational) Add(o Rational) Rational { return New(r.num*o.den+o.num*r.den, r.den*o.den) }
func (r Rational) Sub(o Rational) Rational { return New(r.num*o.den-o.num*r.den, r.den*o.den) }
func (r Rational) Mul(o Rational) Rational { return New(r.num*o.num, r.den*o.den) }
func (r Rational) Div(o Rational) Rational { return New(r.num*o.den, r.den*o.num) }
func (r Rational) Neg() Rational           { return Rational{-r.num, r.den} }

func (r Rational) Cmp(o Rational) int {
	l := r.num * o.den
	rr := o.num * r.den
	switch {
	case l < rr:
		return -1
	case l > rr:
		return 1
	default:
		return 0
	}
}

func (r Rational) Equal(o Rational) bool      { return r.Cmp(o) == 0 }
func (r Rational) LessThan(o Rational) bool   { return r.Cmp(o) < 0 }
func (r Rational) GreaterThan(o Rational) bool { return r.Cmp(o) > 0 }

func (r Rational) Float64() float64 { return float64(r.num) / float64(r.den) }

// Floor returns the greatest integer <= r.
func (r Rational) Floor() int64 {
	q := r.num / r.den
	if r.num%r.den != 0 && (r.num < 0) != (r.den < 0) {
		q--
	}
	return q
}

// Sam is the start-of-cycle for r (spec.md's "sam").
func (r Rational) Sam() Rational { return FromInt(r.Floor()) }

// NextSam is the start of the following cycle.
func (r Rational) NextSam() Rational { return r.Sam().Add(FromInt(1)) }

// CyclePos is the fractional position of r within its own cycle.
func (r Rational) CyclePos() Rational { return r.Sub(r.Sam()) }

func (r Rational) String() string {
	if r.den == 1 {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
