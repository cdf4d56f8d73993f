// Package voice implements the synthesis layer: antialiased oscillators, a
// resonant low-pass filter with its own envelope, FM modulation, amplitude
// envelopes, and sample playback. Its envelope state-machine shape (attack/
// decay/sustain/release stages advanced one sample at a time) is grounded
// on internal/fm/engine.go's envState machine in the teacher repo, and its
// per-wave oscillator switch mirrors the teacher's waveformSample dispatch
// (fm/engine.go) and the chiptune/nesapu engines' equivalent switches,
// confirming the same idiom is used consistently across every teacher
// synthesis back end.
package voice

import "math"

// Wave names the recognised waveform shapes. Only these, plus white noise,
// are recognised "synth" sound names — anything else resolves to a sample
// bank lookup (spec.md §4.5 step 3).
type Wave int

const (
	WaveSine Wave = iota
	WaveSaw
	WaveSquare
	WaveTriangle
	WaveSupersaw
	WaveWhite
)

// Oscillator tracks a single running phase in [0,1).
type Oscillator struct {
	Phase float64
	rng   uint32
}

// Step advances the oscillator by one sample at freqHz against sampleRate
// and returns the waveform's value, antialiased with polyBLEP correction
// for the discontinuous waveforms (saw, square).
func (o *Oscillator) Step(freqHz, sampleRate float64, wave Wave) float64 {
	dt := freqHz / sampleRate
	var s float64
	switch wave {
	case WaveSine:
		s = math.Sin(2 * math.Pi * o.Phase)
	case WaveSaw:
		s = 2*o.Phase - 1
		s -= polyBLEP(o.Phase, dt)
	case WaveSquare:
		if o.Phase < 0.5 {
			s = 1
		} else {
			s = -1
		}
		s += polyBLEP(o.Phase, dt)
		s -= polyBLEP(math.Mod(o.Phase+0.5, 1.0), dt)
	case WaveTriangle:
		switch {
		case o.Phase < 0.25:
			s = 4 * o.Phase
		case o.Phase < 0.75:
			s = 2 - 4*o.Phase
		default:
			s = 4*o.Phase - 4
		}
	case WaveWhite:
		s = o.nextNoise()*2 - 1
	}
	o.Phase += dt
	if o.Phase >= 1 {
		o.Phase -= 1
	}
	return s
}

// nextNoise is a small xorshift PRNG, kept local to each oscillator so
// voices don't contend on the package-level math/rand source from the
// audio thread.
func (o *Oscillator) nextNoise() float64 {
	if o.rng == 0 {
		o.rng = 0x9e3779b9
	}
	o.rng ^= o.rng << 13
	o.rng ^= o.rng >> 17
	o.rng ^= o.rng << 5
	return float64(o.rng) / float64(^uint32(0))
}

// polyBLEP returns the band-limited step correction for a phase value t
// advancing by dt per sample, applied at the points where a naive
// waveform would discontinuously jump (phase < dt or phase > 1-dt).
func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	} else if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// Supersaw sums Voices detuned sawtooth oscillators spread over DetuneSemi
// semitones, normalised by sqrt(Voices), per spec.md's supersaw waveform.
type Supersaw struct {
	Oscs       []Oscillator
	Voices     int
	DetuneSemi float64
}

// NewSupersaw builds a supersaw stack. voices defaults to 5 when given as
// 0 or less; detuneSemi is used as given, so 0 means no detune.
func NewSupersaw(voices int, detuneSemi float64) *Supersaw {
	if voices <= 0 {
		voices = 5
	}
	s := &Supersaw{Voices: voices, DetuneSemi: detuneSemi, Oscs: make([]Oscillator, voices)}
	for i := range s.Oscs {
		s.Oscs[i].Phase = float64(i) / float64(voices)
		s.Oscs[i].rng = uint32(0x9e3779b9 + i*2654435761)
	}
	return s
}

func (s *Supersaw) Step(baseFreq, sampleRate float64) float64 {
	n := s.Voices
	var sum float64
	for i := 0; i < n; i++ {
		var offset float64
		if n > 1 {
			offset = -s.DetuneSemi/2 + s.DetuneSemi*float64(i)/float64(n-1)
		}
		freq := baseFreq * math.Pow(2, offset/12)
		dt := freq / sampleRate
		ph := s.Oscs[i].Phase
		val := 2*ph - 1 - polyBLEP(ph, dt)
		s.Oscs[i].Phase += dt
		if s.Oscs[i].Phase >= 1 {
			s.Oscs[i].Phase -= 1
		}
		sum += val
	}
	return sum / math.Sqrt(float64(n))
}
