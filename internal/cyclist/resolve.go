package cyclist

import (
	"github.com/tidalforge/cyclist/internal/pattern"
	"github.com/tidalforge/cyclist/internal/voice"
)

// spawnVoice resolves one onset hap's control map (spec.md §4.3 step 3's
// consulted key list) into a playing Voice, applies any delay/duck
// controls it carries to its orbit, and appends it to the active list.
func (c *Cyclist) spawnVoice(h pattern.Hap, cps float64) {
	m := toControlMap(h.Value)
	if m == nil {
		return
	}

	orbitNum := getIntDefault(m, "orbit", 1)
	orbit := c.getOrCreateOrbit(orbitNum)
	c.applyOrbitControls(orbit, m, cps)

	pan := clampFloat(getFloatDefault(m, "pan", 0.5), 0, 1)

	v := c.resolveVoice(m, h, orbitNum, pan)
	if v == nil {
		return
	}
	c.voices = append(c.voices, activeVoice{v: v, orbit: orbitNum})
}

func (c *Cyclist) applyOrbitControls(o *Orbit, m pattern.ControlMap, cps float64) {
	if orbitsRaw, ok := m["duckorbit"]; ok {
		c.triggerDuck(orbitsRaw, m)
	} else if orbitsRaw, ok := m["duck"]; ok {
		c.triggerDuck(orbitsRaw, m)
	}

	_, hasDelay := m["delay"]
	_, hasTime := m["delaytime"]
	_, hasT := m["delayt"]
	_, hasDT := m["dt"]
	_, hasFB := m["delayfeedback"]
	_, hasFB2 := m["delayfb"]
	_, hasDFB := m["dfb"]
	_, hasSync := m["delaysync"]
	if !(hasDelay || hasTime || hasT || hasDT || hasFB || hasFB2 || hasDFB || hasSync) {
		return
	}
	wet := firstFloat(m, o.delay.wet, "delay")
	timeSec := firstFloat(m, o.delay.timeSec, "delaytime", "delayt", "dt")
	if syncCycles, ok := getFloat(m, "delaysync"); ok && cps > 0 {
		timeSec = syncCycles / cps
	}
	feedback := firstFloat(m, o.delay.feedback, "delayfeedback", "delayfb", "dfb")
	o.delay.configure(wet, timeSec, feedback)
}

func (c *Cyclist) triggerDuck(raw any, m pattern.ControlMap) {
	depth := getFloatDefault(m, "duckdepth", 0.5)
	onset := getFloatDefault(m, "duckonset", 0.01)
	attack := getFloatDefault(m, "duckattack", 0.1)
	for _, n := range duckOrbits(raw) {
		o := c.getOrCreateOrbit(n)
		o.duck.trigger(depth, onset, attack)
	}
}

func (c *Cyclist) resolveVoice(m pattern.ControlMap, h pattern.Hap, orbitNum int, pan float64) voice.Voice {
	name, _ := getString(m, "s")
	if name == "" {
		name, _ = getString(m, "sound")
	}

	holdSeconds := 0.0
	if h.Whole != nil {
		cps := c.CPS()
		if cps <= 0 {
			cps = 1
		}
		holdSeconds = h.Whole.Duration().Float64() / cps
	}

	gain := firstFloat(m, 0.8, "gain")
	if vel, ok := getFloat(m, "velocity"); ok {
		gain = vel / 127
	}

	if w, isSynth := resolveWave(name); isSynth {
		return c.resolveSynth(w, m, holdSeconds, gain, orbitNum, pan)
	}
	return c.resolveSample(name, m, gain, orbitNum, pan)
}

func (c *Cyclist) resolveSynth(w voice.Wave, m pattern.ControlMap, holdSeconds, gain float64, orbitNum int, pan float64) voice.Voice {
	freq := resolveFreq(m)

	params := voice.SynthParams{
		Wave:           w,
		FreqHz:         freq,
		Gain:           gain * 0.3,
		Pan:            pan,
		OrbitNum:       orbitNum,
		HoldSeconds:    holdSeconds,
		A:              nanDefault(m, "attack"),
		D:              nanDefault(m, "decay"),
		S:              nanDefault(m, "sustain"),
		R:              nanDefault(m, "release"),
		SupersawVoices: getIntDefault(m, "unison", 5),
		SupersawDetune: getFloatDefault(m, "spread", 10),
	}

	if _, ok := m["fmi"]; ok {
		fmWave := voice.WaveSine
		if name, ok := getString(m, "fmwave"); ok {
			if w, isSynth := resolveWave(name); isSynth {
				fmWave = w
			}
		}
		params.FM = voice.FMParams{Enabled: true, Ratio: getFloatDefault(m, "fmh", 1), Index: getFloatDefault(m, "fmi", 1), Wave: fmWave}
	}

	if _, ok := m["lpf"]; ok {
		params.LPF = voice.LPFParams{
			Enabled:     true,
			Cutoff:      getFloatDefault(m, "lpf", 1000),
			Resonance:   getFloatDefault(m, "lpq", 0.707),
			EnvDepthOct: getFloatDefault(m, "lpenv", 0),
			A:           nanDefault(m, "lpa"),
			D:           nanDefault(m, "lpd"),
			S:           nanDefault(m, "lps"),
			R:           nanDefault(m, "lpr"),
		}
	}

	return voice.NewSynthVoice(float64(c.sampleRate), params)
}

func resolveFreq(m pattern.ControlMap) float64 {
	if f, ok := getFloat(m, "freq"); ok {
		return f
	}
	note := firstFloat(m, 0, "note", "n")
	detune := getFloatDefault(m, "detune", 0)
	return midiToFreq(note + detune)
}

func (c *Cyclist) resolveSample(name string, m pattern.ControlMap, gain float64, orbitNum int, pan float64) voice.Voice {
	if name == "" || c.bank == nil {
		return nil
	}
	n := getIntDefault(m, "n", 0)
	data, ok := c.bank.Get(name, n)
	if !ok {
		return nil
	}
	speed := firstFloat(m, 1, "speed")
	return voice.NewSampleVoice(float64(c.sampleRate), data, voice.SampleVoiceParams{
		Speed:    speed,
		Gain:     gain,
		Pan:      pan,
		OrbitNum: orbitNum,
	})
}
