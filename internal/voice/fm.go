package voice

import "math"

// FM is a single-operator frequency modulator: a modulator oscillator at
// Ratio*carrierFreq, scaled by Ratio*Index*carrierFreq, offsets the carrier
// frequency each sample. Grounded on the teacher's fm/engine.go operator
// chain, collapsed to the one modulator depth spec.md §4.4 exposes.
type FM struct {
	Enabled bool
	Ratio   float64
	Index   float64
	Wave    Wave
	Osc     Oscillator
}

// Step returns the carrier frequency to use for this sample, offset by the
// modulator's current output, clamped to non-negative.
func (f *FM) Step(baseFreq, sampleRate float64) float64 {
	if !f.Enabled {
		return baseFreq
	}
	modFreq := baseFreq * f.Ratio
	m := f.Osc.Step(modFreq, sampleRate, f.Wave)
	offset := m * baseFreq * f.Ratio * f.Index
	freq := baseFreq + offset
	if freq < 0 {
		freq = 0
	}
	return math.Abs(freq)
}
