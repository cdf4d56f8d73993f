package pattern

import (
	"strconv"

	"github.com/tidalforge/cyclist/internal/rational"
)

// innerJoin combines l and r: for each left hap, queries r across that hap's
// own extent, keeping only right haps overlapping its Part, combining
// values with combine. The result's Whole is the intersection of both
// wholes (nil if either side has none); its Part is the intersection of
// both parts.
func innerJoin(l, r Pattern, combine func(lv, rv any) any) Pattern {
	return newPattern(func(q Query) []Hap {
		lHaps := l.Query(q)
		var out []Hap
		for _, lh := range lHaps {
			rHaps := r.Query(Query{Span: lh.WholeOrPart()})
			for _, rh := range rHaps {
				partInter, ok := lh.Part.Intersection(rh.Part)
				if !ok {
					continue
				}
				if partInter.Empty() && !lh.Part.Empty() {
					continue
				}
				var whole *rational.Span
				if lh.Whole != nil && rh.Whole != nil {
					if w, ok2 := lh.Whole.Intersection(*rh.Whole); ok2 {
						whole = &w
					}
				}
				out = append(out, Hap{Whole: whole, Part: partInter, Value: combine(lh.Value, rh.Value), Context: lh.Context})
			}
		}
		return out
	})
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case rational.Rational:
		return x.Float64(), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		n, _ := strconv.Atoi(x)
		return n
	}
	return 0
}

func numBinOp(lv, rv any, fi func(int, int) int, ff func(float64, float64) float64) any {
	li, liok := lv.(int)
	ri, riok := rv.(int)
	if liok && riok {
		return fi(li, ri)
	}
	lf, lok := toFloat64(lv)
	rf, rok := toFloat64(rv)
	if !lok || !rok {
		return lv
	}
	return ff(lf, rf)
}

func addValues(lv, rv any) any {
	return numBinOp(lv, rv, func(a, b int) int { return a + b }, func(a, b float64) float64 { return a + b })
}
func subValues(lv, rv any) any {
	return numBinOp(lv, rv, func(a, b int) int { return a - b }, func(a, b float64) float64 { return a - b })
}
func mulValues(lv, rv any) any {
	return numBinOp(lv, rv, func(a, b int) int { return a * b }, func(a, b float64) float64 { return a * b })
}
func divValues(lv, rv any) any {
	return numBinOp(lv, rv, func(a, b int) int {
		if b == 0 {
			return 0
		}
		return a / b
	}, func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	})
}
func powValues(lv, rv any) any {
	return numBinOp(lv, rv, func(a, b int) int {
		r := 1
		for i := 0; i < b; i++ {
			r *= a
		}
		return r
	}, func(a, b float64) float64 { return powFloat(a, b) })
}

// Add, Sub, Mul, Div, Pow combine two numeric patterns by inner-join:
// result timing follows the intersection of both sides' (whole, part).
func (p Pattern) Add(other Pattern) Pattern { return innerJoin(p, other, addValues) }
func (p Pattern) Sub(other Pattern) Pattern { return innerJoin(p, other, subValues) }
func (p Pattern) Mul(other Pattern) Pattern { return innerJoin(p, other, mulValues) }
func (p Pattern) Div(other Pattern) Pattern { return innerJoin(p, other, divValues) }
func (p Pattern) Pow(other Pattern) Pattern { return innerJoin(p, other, powValues) }

// SetControl merges key=valuePattern into p's control maps. A non-mapping
// left value is discarded and replaced by a fresh ControlMap{key: value}.
func (p Pattern) SetControl(key string, valuePattern Pattern) Pattern {
	return innerJoin(p, valuePattern, func(lv, rv any) any {
		m, ok := lv.(ControlMap)
		if !ok {
			m = ControlMap{}
		} else {
			m = m.Clone()
		}
		m[key] = rv
		return m
	})
}

func powFloat(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	neg := b < 0
	if neg {
		b = -b
	}
	r := 1.0
	whole := int(b)
	for i := 0; i < whole; i++ {
		r *= a
	}
	if neg {
		if r == 0 {
			return 0
		}
		return 1 / r
	}
	return r
}
