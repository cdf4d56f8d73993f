package rational

// Span is a half-open interval of cycle time [Begin, End).
type Span struct {
	Begin, End Rational
}

// NewSpan builds a Span. Callers are responsible for Begin <= End.
func NewSpan(b, e Rational) Span { return Span{b, e} }

func (s Span) Duration() Rational { return s.End.Sub(s.Begin) }
func (s Span) Empty() bool        { return s.Begin.Equal(s.End) }

// Cycles splits s at every integer boundary it crosses, returning one Span
// per whole-or-partial cycle, in order.
func (s Span) Cycles() []Span {
	if s.Begin.Cmp(s.End) > 0 {
		return nil
	}
	if s.Begin.Equal(s.End) {
		return []Span{s}
	}
	var out []Span
	b := s.Begin
	for b.LessThan(s.End) {
		next := b.NextSam()
		if next.Cmp(s.End) > 0 {
			next = s.End
		}
		out = append(out, Span{b, next})
		b = next
	}
	return out
}

// Intersection returns the overlap of s and o. Touching (zero-width)
// overlaps at a shared boundary are reported as a valid, empty Span.
func (s Span) Intersection(o Span) (Span, bool) {
	b := maxR(s.Begin, o.Begin)
	e := minR(s.End, o.End)
	if b.Cmp(e) > 0 {
		return Span{}, false
	}
	return Span{b, e}, true
}

// MapTime applies f to both endpoints.
func (s Span) MapTime(f func(Rational) Rational) Span { return Span{f(s.Begin), f(s.End)} }

// WithTime applies fb to Begin and fe to End independently.
func (s Span) WithTime(fb, fe func(Rational) Rational) Span { return Span{fb(s.Begin), fe(s.End)} }

func maxR(a, b Rational) Rational {
	if a.Cmp(b) > 0 {
		return a
	}
	return b
}

func minR(a, b Rational) Rational {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}
