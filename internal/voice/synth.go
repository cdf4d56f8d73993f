package voice

import "math"

// Voice is the common interface the scheduler drives: render one stereo
// sample pair per call until Playing reports false.
type Voice interface {
	Render() (l, r float32)
	Playing() bool
	NoteOff()
	Pan() float64
	Orbit() int
}

// FMParams configures an optional FM modulator for a SynthVoice.
type FMParams struct {
	Enabled bool
	Ratio   float64
	Index   float64
	Wave    Wave // modulator waveform, per spec.md §4.4's fmwave (default sine)
}

// LPFParams configures the optional resonant filter and its envelope.
type LPFParams struct {
	Enabled           bool
	Cutoff, Resonance float64
	EnvDepthOct       float64
	A, D, S, R        float64 // NaN for "unset" => FilterEnvelope defaults
}

// SynthParams is the fully-resolved set of controls a SynthVoice needs;
// the cyclist package builds this from a Hap's ControlMap.
type SynthParams struct {
	Wave           Wave
	FreqHz         float64
	Gain           float64
	Pan            float64
	OrbitNum       int
	HoldSeconds    float64 // 0 means "free decay, no fixed hold"
	A, D, S, R     float64 // NaN entries fall back to AmpEnvelope defaults
	FM             FMParams
	LPF            LPFParams
	SupersawVoices int
	SupersawDetune float64
}

// SynthVoice renders one oscillator-based note: optional FM carrier
// modulation, amplitude envelope, and optional filter with its own
// envelope, matching the signal chain spec.md §4.4 describes.
type SynthVoice struct {
	params SynthParams

	osc       Oscillator
	supersaw  *Supersaw
	fm        FM
	amp       *AmpEnvelope
	filter    *Biquad
	filterEnv *FilterEnvelope

	sampleRate float64
	released   bool
}

func midiToFreq(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}

// NewSynthVoice starts a note. freqHz in params should already be resolved
// (e.g. via midiToFreq from a `note` control, or a literal `freq`).
func NewSynthVoice(sampleRate float64, p SynthParams) *SynthVoice {
	v := &SynthVoice{params: p, sampleRate: sampleRate}
	v.amp = NewAmpEnvelope(sampleRate)
	v.amp.Trigger(p.A, p.D, p.S, p.R, p.HoldSeconds)

	if p.Wave == WaveSupersaw {
		v.supersaw = NewSupersaw(p.SupersawVoices, p.SupersawDetune)
	}

	if p.FM.Enabled {
		v.fm = FM{Enabled: true, Ratio: p.FM.Ratio, Index: p.FM.Index, Wave: p.FM.Wave}
	}

	if p.LPF.Enabled {
		v.filter = NewBiquad(sampleRate)
		v.filter.SetResonance(p.LPF.Resonance)
		v.filterEnv = NewFilterEnvelope(sampleRate)
		v.filterEnv.SetADSR(p.LPF.A, p.LPF.D, p.LPF.S, p.LPF.R)
		cutoff := p.LPF.Cutoff
		if cutoff <= 0 {
			cutoff = 1000
		}
		v.filterEnv.Trigger(cutoff, p.LPF.EnvDepthOct)
	}
	return v
}

func (v *SynthVoice) Render() (float32, float32) {
	freq := v.params.FreqHz
	if v.fm.Enabled {
		freq = v.fm.Step(freq, v.sampleRate)
	}

	var s float64
	if v.supersaw != nil {
		s = v.supersaw.Step(freq, v.sampleRate)
	} else {
		s = v.osc.Step(freq, v.sampleRate, v.params.Wave)
	}

	if v.filter != nil {
		v.filter.SetCutoff(v.filterEnv.Step())
		s = v.filter.Process(s)
	}

	env := v.amp.Step()
	out := float32(s * env * v.params.Gain)
	return out, out
}

func (v *SynthVoice) Playing() bool {
	return !v.amp.Idle()
}

func (v *SynthVoice) NoteOff() {
	if v.released {
		return
	}
	v.released = true
	v.amp.Release()
	if v.filterEnv != nil {
		v.filterEnv.Release()
	}
}

func (v *SynthVoice) Pan() float64 { return v.params.Pan }
func (v *SynthVoice) Orbit() int   { return v.params.OrbitNum }
