// Package pattern implements the rational-time pattern algebra: a Pattern
// is a lazy function from a queried time span to the Haps active within it.
// It is the Go-idiomatic core this repository lowers mini-notation into and
// the scheduler queries every audio block.
package pattern

import (
	"sort"

	"github.com/tidalforge/cyclist/internal/rational"
)

// ControlMap is the Go stand-in for a "control value": a mapping from
// control-vocabulary key to value. Go maps are unordered; nothing in this
// codebase depends on insertion order, only on key lookup.
type ControlMap map[string]any

// Clone returns a shallow copy, used whenever a combinator needs to produce
// a new control map without mutating a hap a caller might still hold.
func (m ControlMap) Clone() ControlMap {
	out := make(ControlMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Hap is one scheduled event: Whole is its full lifetime (nil for an
// analog/continuous value with no discrete onset), Part is the portion
// falling within the span that was queried, and Value carries the payload.
type Hap struct {
	Whole   *rational.Span
	Part    rational.Span
	Value   any
	Context any
}

// HasOnset reports whether this hap's Part begins exactly where its Whole
// begins — i.e. this query fragment is the one that should actually trigger
// a voice, not a carried-over continuation of an event from an earlier
// block.
func (h Hap) HasOnset() bool {
	return h.Whole != nil && h.Whole.Begin.Equal(h.Part.Begin)
}

// WholeOrPart returns Whole if present, else Part — the span other
// combinators should treat as this hap's "extent" for join purposes.
func (h Hap) WholeOrPart() rational.Span {
	if h.Whole != nil {
		return *h.Whole
	}
	return h.Part
}

// Query is a request for the haps active within Span.
type Query struct {
	Span rational.Span
}

type queryFunc func(Query) []Hap

// Pattern is a lazy function of time: Query(q) returns the haps that land
// inside q.Span. Patterns are immutable; every combinator returns a new one.
type Pattern struct {
	query queryFunc
}

func newPattern(f queryFunc) Pattern { return Pattern{query: f} }

// Query runs the pattern's query function. A nil Pattern behaves as Silence.
func (p Pattern) Query(q Query) []Hap {
	if p.query == nil {
		return nil
	}
	return p.query(q)
}

// Silence never produces any haps.
func Silence() Pattern {
	return newPattern(func(Query) []Hap { return nil })
}

// Pure repeats v once per cycle, occupying the whole cycle.
func Pure(v any) Pattern {
	return newPattern(func(q Query) []Hap {
		var haps []Hap
		for _, cyc := range q.Span.Cycles() {
			n := cyc.Begin.Sam()
			whole := rational.NewSpan(n, n.NextSam())
			haps = append(haps, Hap{Whole: &whole, Part: cyc, Value: v})
		}
		return haps
	})
}

// Stack plays every pattern simultaneously, each occupying the full cycle.
func Stack(ps ...Pattern) Pattern {
	return newPattern(func(q Query) []Hap {
		var out []Hap
		for _, p := range ps {
			out = append(out, p.Query(q)...)
		}
		return out
	})
}

// Slowcat plays one whole pattern per cycle, cycling through ps in order.
// The sub-pattern is queried at the same absolute span it would see on its
// own — slowcat does not reindex the sub-pattern's own cycle count.
func Slowcat(ps ...Pattern) Pattern {
	k := len(ps)
	if k == 0 {
		return Silence()
	}
	return newPattern(func(q Query) []Hap {
		var out []Hap
		for _, cyc := range q.Span.Cycles() {
			n := cyc.Begin.Sam().Floor()
			idx := ((n % int64(k)) + int64(k)) % int64(k)
			out = append(out, ps[idx].Query(Query{Span: cyc})...)
		}
		return out
	})
}

// Fast speeds p up by factor (factor > 1 makes it faster); factor <= 0
// yields Silence.
func (p Pattern) Fast(factor rational.Rational) Pattern {
	if factor.Float64() <= 0 {
		return Silence()
	}
	return newPattern(func(q Query) []Hap {
		qs := q.Span.MapTime(func(t rational.Rational) rational.Rational { return t.Mul(factor) })
		haps := p.Query(Query{Span: qs})
		out := make([]Hap, 0, len(haps))
		for _, h := range haps {
			var w *rational.Span
			if h.Whole != nil {
				ws := h.Whole.MapTime(func(t rational.Rational) rational.Rational { return t.Div(factor) })
				w = &ws
			}
			part := h.Part.MapTime(func(t rational.Rational) rational.Rational { return t.Div(factor) })
			out = append(out, Hap{Whole: w, Part: part, Value: h.Value, Context: h.Context})
		}
		return out
	})
}

// Slow is Fast(1/factor).
func (p Pattern) Slow(factor rational.Rational) Pattern {
	return p.Fast(rational.New(1, 1).Div(factor))
}

// Fastcat plays ps in sequence, one per 1/len(ps) of the cycle, defined
// exactly as fast(k, slowcat(ps...)).
func Fastcat(ps ...Pattern) Pattern {
	k := int64(len(ps))
	if k == 0 {
		return Silence()
	}
	return Slowcat(ps...).Fast(rational.FromInt(k))
}

// Weighted pairs a Pattern with its share of the enclosing sequence.
type Weighted struct {
	Weight  rational.Rational
	Pattern Pattern
}

// TimeCat generalises Fastcat to unequal per-step widths (mini-notation's
// elongation), by compressing each item into its proportional sub-span of
// every cycle.
func TimeCat(items []Weighted) Pattern {
	if len(items) == 0 {
		return Silence()
	}
	total := rational.FromInt(0)
	for _, it := range items {
		total = total.Add(it.Weight)
	}
	if total.Float64() == 0 {
		return Silence()
	}
	parts := make([]Pattern, 0, len(items))
	cum := rational.FromInt(0)
	for _, it := range items {
		b := cum.Div(total)
		cum = cum.Add(it.Weight)
		e := cum.Div(total)
		parts = append(parts, compressSpan(b, e, it.Pattern))
	}
	return newPattern(func(q Query) []Hap {
		var out []Hap
		for _, cyc := range q.Span.Cycles() {
			for _, p := range parts {
				out = append(out, p.Query(Query{Span: cyc})...)
			}
		}
		return out
	})
}

// compressSpan squeezes p into the [begin, end) sub-span of every cycle
// (both within [0,1]).
func compressSpan(begin, end rational.Rational, p Pattern) Pattern {
	if begin.Cmp(end) > 0 {
		return Silence()
	}
	span := end.Sub(begin)
	if span.Float64() <= 0 {
		return Silence()
	}
	return newPattern(func(q Query) []Hap {
		var out []Hap
		for _, cyc := range q.Span.Cycles() {
			n := cyc.Begin.Sam()
			target := rational.NewSpan(n.Add(begin), n.Add(end))
			inter, ok := target.Intersection(cyc)
			if !ok {
				continue
			}
			toInner := func(t rational.Rational) rational.Rational {
				return n.Add(t.Sub(n.Add(begin)).Div(span))
			}
			toOuter := func(t rational.Rational) rational.Rational {
				return n.Add(begin).Add(t.Sub(n).Mul(span))
			}
			innerSpan := inter.MapTime(toInner)
			haps := p.Query(Query{Span: innerSpan})
			for _, h := range haps {
				var w *rational.Span
				if h.Whole != nil {
					ws := h.Whole.MapTime(toOuter)
					w = &ws
				}
				part := h.Part.MapTime(toOuter)
				out = append(out, Hap{Whole: w, Part: part, Value: h.Value, Context: h.Context})
			}
		}
		return out
	})
}

// WithValue transforms every hap's value with f, leaving timing untouched.
func (p Pattern) WithValue(f func(any) any) Pattern {
	return newPattern(func(q Query) []Hap {
		haps := p.Query(q)
		out := make([]Hap, len(haps))
		for i, h := range haps {
			out[i] = Hap{Whole: h.Whole, Part: h.Part, Value: f(h.Value), Context: h.Context}
		}
		return out
	})
}

// Every applies f to p only on cycles where cycleIndex mod n == n-1.
func (p Pattern) Every(n int, f func(Pattern) Pattern) Pattern {
	if n <= 0 {
		return p
	}
	transformed := f(p)
	return newPattern(func(q Query) []Hap {
		var out []Hap
		for _, cyc := range q.Span.Cycles() {
			idx := cyc.Begin.Sam().Floor()
			m := ((idx % int64(n)) + int64(n)) % int64(n)
			src := p
			if m == int64(n-1) {
				src = transformed
			}
			out = append(out, src.Query(Query{Span: cyc})...)
		}
		return out
	})
}

// Rev reflects every hap within its own cycle.
func (p Pattern) Rev() Pattern {
	return newPattern(func(q Query) []Hap {
		var out []Hap
		for _, cyc := range q.Span.Cycles() {
			n := cyc.Begin.Sam()
			next := n.NextSam()
			reflect := func(t rational.Rational) rational.Rational { return n.Add(next.Sub(t)) }
			qSpan := rational.NewSpan(reflect(cyc.End), reflect(cyc.Begin))
			haps := p.Query(Query{Span: qSpan})
			for _, h := range haps {
				var w *rational.Span
				if h.Whole != nil {
					ws := rational.NewSpan(reflect(h.Whole.End), reflect(h.Whole.Begin))
					w = &ws
				}
				part := rational.NewSpan(reflect(h.Part.End), reflect(h.Part.Begin))
				out = append(out, Hap{Whole: w, Part: part, Value: h.Value, Context: h.Context})
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Part.Begin.LessThan(out[j].Part.Begin) })
		return out
	})
}

// FilterHaps keeps only haps satisfying pred.
func (p Pattern) FilterHaps(pred func(Hap) bool) Pattern {
	return newPattern(func(q Query) []Hap {
		haps := p.Query(q)
		out := make([]Hap, 0, len(haps))
		for _, h := range haps {
			if pred(h) {
				out = append(out, h)
			}
		}
		return out
	})
}

// OnsetsOnly keeps only haps that begin within the queried span.
func (p Pattern) OnsetsOnly() Pattern {
	return p.FilterHaps(func(h Hap) bool { return h.HasOnset() })
}
