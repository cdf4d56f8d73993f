package voice

import (
	"math"
	"testing"
)

func TestOscillatorSinePeriod(t *testing.T) {
	var o Oscillator
	sampleRate := 48000.0
	freq := 100.0
	period := int(sampleRate / freq)
	var first float64
	for i := 0; i <= period; i++ {
		v := o.Step(freq, sampleRate, WaveSine)
		if i == 0 {
			first = v
		}
		if i == period {
			if math.Abs(v-first) > 0.05 {
				t.Fatalf("sine did not return close to start after one period: got %v want ~%v", v, first)
			}
		}
	}
}

func TestOscillatorSawRange(t *testing.T) {
	var o Oscillator
	for i := 0; i < 1000; i++ {
		v := o.Step(220, 48000, WaveSaw)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("saw sample out of reasonable range: %v", v)
		}
	}
}

func TestSupersawNormalizedAmplitude(t *testing.T) {
	s := NewSupersaw(5, 10)
	var maxAbs float64
	for i := 0; i < 2000; i++ {
		v := s.Step(220, 48000)
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
		}
	}
	if maxAbs > 2 {
		t.Fatalf("supersaw amplitude too high: %v", maxAbs)
	}
}

func TestAmpEnvelopeReachesOneAfterAttack(t *testing.T) {
	e := NewAmpEnvelope(48000)
	e.Trigger(0.01, 0.05, 0.8, 0.05, 1.0)
	attackSamples := int(0.01 * 48000)
	var v float64
	for i := 0; i < attackSamples+5; i++ {
		v = e.Step()
	}
	if v < 0.9 {
		t.Fatalf("envelope did not reach near 1 after attack: %v", v)
	}
}

func TestAmpEnvelopeDecaysToSustain(t *testing.T) {
	e := NewAmpEnvelope(48000)
	e.Trigger(0.001, 0.05, 0.3, 0.01, 1.0)
	for i := 0; i < int(0.06*48000); i++ {
		e.Step()
	}
	v := e.Step()
	if math.Abs(v-0.3) > 0.05 {
		t.Fatalf("envelope sustain = %v, want ~0.3", v)
	}
}

func TestAmpEnvelopeFreeDecayEventuallyIdles(t *testing.T) {
	e := NewAmpEnvelope(48000)
	e.Trigger(0.001, 0.02, 0, 0, 0)
	for i := 0; i < int(48000*2); i++ {
		e.Step()
		if e.Idle() {
			return
		}
	}
	t.Fatalf("free-decay envelope never idled")
}

func TestAmpEnvelopeReleaseGoesToZero(t *testing.T) {
	e := NewAmpEnvelope(48000)
	e.Trigger(0.001, 0.01, 0.5, 0.02, 1.0)
	for i := 0; i < int(0.02*48000); i++ {
		e.Step()
	}
	e.Release()
	for i := 0; i < int(0.03*48000); i++ {
		e.Step()
	}
	if !e.Idle() {
		t.Fatalf("envelope should be idle after release completes")
	}
}

func TestFilterEnvelopeSweepsTowardMax(t *testing.T) {
	fe := NewFilterEnvelope(48000)
	fe.SetADSR(0.01, 0.05, 0, 0.05)
	fe.Trigger(500, 2)
	var maxCutoff float64
	for i := 0; i < int(0.01*48000); i++ {
		c := fe.Step()
		if c > maxCutoff {
			maxCutoff = c
		}
	}
	if maxCutoff < 500 {
		t.Fatalf("filter envelope did not sweep upward: max %v", maxCutoff)
	}
}

func TestFMOffsetsCarrierFrequency(t *testing.T) {
	fm := &FM{Enabled: true, Ratio: 2, Index: 1, Wave: WaveSine}
	fm.Osc.Phase = 0.25 // sin(2*pi*0.25) == 1, a non-zero modulator sample
	base := 220.0
	freq := fm.Step(base, 48000)
	// spec.md §4.4: carrier = max(0, base + mod*base*fmh*fmi), fmh=Ratio.
	want := base + 1*base*fm.Ratio*fm.Index
	if math.Abs(freq-want) > 1e-9 {
		t.Fatalf("freq = %v, want %v (offset must scale by Ratio/fmh)", freq, want)
	}
}

func TestFMDisabledPassesThrough(t *testing.T) {
	fm := &FM{Enabled: false}
	freq := fm.Step(220, 48000)
	if freq != 220 {
		t.Fatalf("disabled FM changed frequency: %v", freq)
	}
}

func TestSynthVoicePlayingThenIdle(t *testing.T) {
	v := NewSynthVoice(48000, SynthParams{
		Wave: WaveSine, FreqHz: 440, Gain: 0.5,
		A: 0.001, D: 0.01, S: 0.5, R: 0.01,
		HoldSeconds: 0.02,
	})
	sawIdle := false
	for i := 0; i < int(48000*0.2); i++ {
		v.Render()
		if !v.Playing() {
			sawIdle = true
			break
		}
	}
	if !sawIdle {
		t.Fatalf("synth voice never finished")
	}
}

func TestSampleVoicePlaysThenStops(t *testing.T) {
	data := &SampleData{
		Channels:   [][]float32{make([]float32, 100)},
		SampleRate: 48000,
	}
	for i := range data.Channels[0] {
		data.Channels[0][i] = 1
	}
	v := NewSampleVoice(48000, data, SampleVoiceParams{Gain: 1})
	count := 0
	for v.Playing() && count < 1000 {
		v.Render()
		count++
	}
	if count != 100 {
		t.Fatalf("sample voice rendered %d frames, want 100", count)
	}
}

func TestSampleVoiceNegativeSpeedStillTerminates(t *testing.T) {
	data := &SampleData{
		Channels:   [][]float32{make([]float32, 100)},
		SampleRate: 48000,
	}
	v := NewSampleVoice(48000, data, SampleVoiceParams{Gain: 1, Speed: -1})
	count := 0
	for v.Playing() && count < 1000 {
		v.Render()
		count++
	}
	if count != 100 {
		t.Fatalf("negative-speed voice rendered %d frames, want 100 (|speed| forward playback)", count)
	}
}

func TestSampleVoiceStereoPassthrough(t *testing.T) {
	data := &SampleData{
		Channels:   [][]float32{{1, 1}, {-1, -1}},
		SampleRate: 48000,
	}
	v := NewSampleVoice(48000, data, SampleVoiceParams{Gain: 1})
	l, r := v.Render()
	if l <= 0 || r >= 0 {
		t.Fatalf("stereo channels not kept distinct: l=%v r=%v", l, r)
	}
}
