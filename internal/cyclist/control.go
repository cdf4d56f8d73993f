package cyclist

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidalforge/cyclist/internal/pattern"
	"github.com/tidalforge/cyclist/internal/voice"
)

// toControlMap normalises a Hap's value into a ControlMap: bare strings
// become {s: name}, bare numbers become {n: value}, and ControlMaps pass
// through. Anything else (e.g. silence leaking through) yields nil.
func toControlMap(v any) pattern.ControlMap {
	switch t := v.(type) {
	case pattern.ControlMap:
		return t
	case string:
		return pattern.ControlMap{"s": t}
	case int:
		return pattern.ControlMap{"n": t}
	case float64:
		return pattern.ControlMap{"n": t}
	default:
		return nil
	}
}

func getFloat(m pattern.ControlMap, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func getFloatDefault(m pattern.ControlMap, key string, def float64) float64 {
	if v, ok := getFloat(m, key); ok {
		return v
	}
	return def
}

// nanDefault returns the value if present, else NaN so downstream ADSR
// resolution can distinguish "unset" from "explicitly zero".
func nanDefault(m pattern.ControlMap, key string) float64 {
	if v, ok := getFloat(m, key); ok {
		return v
	}
	return math.NaN()
}

func getIntDefault(m pattern.ControlMap, key string, def int) int {
	if v, ok := getFloat(m, key); ok {
		return int(v)
	}
	return def
}

func getString(m pattern.ControlMap, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

func firstFloat(m pattern.ControlMap, def float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := getFloat(m, k); ok {
			return v
		}
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var waveNames = map[string]voice.Wave{
	"sine": voice.WaveSine, "sin": voice.WaveSine,
	"sawtooth": voice.WaveSaw, "saw": voice.WaveSaw,
	"square": voice.WaveSquare, "sqr": voice.WaveSquare,
	"triangle": voice.WaveTriangle, "tri": voice.WaveTriangle,
	"supersaw": voice.WaveSupersaw,
	"white":    voice.WaveWhite,
}

// resolveWave reports whether name is a recognised synth waveform (spec.md
// §4.5's closed vocabulary); anything else is a sample bank name.
func resolveWave(name string) (voice.Wave, bool) {
	w, ok := waveNames[strings.ToLower(name)]
	return w, ok
}

func midiToFreq(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}

// duckOrbits parses duckorbit/duck, accepting int, float (floored), or a
// colon-delimited string of either, per the spec's resolved Open Question.
func duckOrbits(v any) []int {
	switch t := v.(type) {
	case int:
		return []int{t}
	case float64:
		return []int{int(math.Floor(t))}
	case string:
		var out []int
		for _, part := range strings.Split(t, ":") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if f, err := strconv.ParseFloat(part, 64); err == nil {
				out = append(out, int(math.Floor(f)))
			}
		}
		return out
	}
	return nil
}
