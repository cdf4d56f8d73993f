package pattern

// N wraps every bare value as ControlMap{"n": parsed-numeric-value}.
func (p Pattern) N() Pattern { return p.wrapKey("n", wrapNumeric) }

// Note wraps every bare value as ControlMap{"note": parsed-numeric-value}.
func (p Pattern) Note() Pattern { return p.wrapKey("note", wrapNumeric) }

// S wraps every bare value as ControlMap{"s": value} (sample/sound name).
func (p Pattern) S() Pattern { return p.wrapKey("s", func(v any) any { return v }) }

func wrapNumeric(v any) any {
	if f, ok := toFloat64(v); ok {
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	}
	return v
}

func (p Pattern) wrapKey(key string, conv func(any) any) Pattern {
	return p.WithValue(func(v any) any {
		if m, ok := v.(ControlMap); ok {
			nm := m.Clone()
			if existing, present := nm[key]; present {
				nm[key] = conv(existing)
			} else {
				nm[key] = conv(v)
			}
			return nm
		}
		return ControlMap{key: conv(v)}
	})
}

// Fit sets each hap's "unit" to "c" and "speed" to 1/duration, so a sample
// played at this event stretches to exactly fill its slot.
func (p Pattern) Fit() Pattern {
	return newPattern(func(q Query) []Hap {
		haps := p.Query(q)
		out := make([]Hap, len(haps))
		for i, h := range haps {
			dur := h.WholeOrPart().Duration().Float64()
			speed := 1.0
			if dur != 0 {
				speed = 1.0 / dur
			}
			m, ok := h.Value.(ControlMap)
			if ok {
				m = m.Clone()
			} else {
				m = ControlMap{}
			}
			m["unit"] = "c"
			m["speed"] = speed
			out[i] = Hap{Whole: h.Whole, Part: h.Part, Value: m, Context: h.Context}
		}
		return out
	})
}

// Trans adds semis (an integer-semitone pattern) to each hap's "note" key,
// via inner join. Values without a "note" key pass through untouched.
func Trans(p Pattern, semis Pattern) Pattern {
	return innerJoin(p, semis, func(lv, rv any) any {
		m, ok := lv.(ControlMap)
		if !ok {
			return lv
		}
		note, hasNote := m["note"]
		if !hasNote {
			return lv
		}
		nm := m.Clone()
		nm["note"] = toInt(note) + toInt(rv)
		return nm
	})
}
