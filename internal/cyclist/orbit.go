package cyclist

import "math"

// delayLine is a stereo feedback delay with a dynamically adjustable time,
// structured like the teacher's effects.Delay (ring buffer + feedback/wet
// scalars) but sized to the spec's fixed 10-second maximum and read at an
// explicit write-minus-time offset so `time` can change between blocks
// without reallocating the buffer.
type delayLine struct {
	bufL, bufR []float32
	writePos   int

	wet, timeSec, feedback float64
}

func newDelayLine(sampleRate int) *delayLine {
	n := 10 * sampleRate
	if n < 1 {
		n = 1
	}
	return &delayLine{bufL: make([]float32, n), bufR: make([]float32, n)}
}

func (d *delayLine) configure(wet, timeSec, feedback float64) {
	d.wet = clamp01(wet)
	d.timeSec = clampFloat(timeSec, 0, 10)
	d.feedback = clampFloat(feedback, 0, 0.999)
}

func (d *delayLine) process(l, r float32) (float32, float32) {
	n := len(d.bufL)
	sampleRate := float64(n) / 10.0
	readPos := d.writePos - int(math.Round(d.timeSec*sampleRate))
	readPos %= n
	if readPos < 0 {
		readPos += n
	}
	delL := d.bufL[readPos]
	delR := d.bufR[readPos]

	outL := float32(float64(l) + d.wet*float64(delL))
	outR := float32(float64(r) + d.wet*float64(delR))

	d.bufL[d.writePos] = float32(float64(l) + d.feedback*float64(delL))
	d.bufR[d.writePos] = float32(float64(r) + d.feedback*float64(delR))

	d.writePos++
	if d.writePos >= n {
		d.writePos = 0
	}
	return outL, outR
}

// duckStage mirrors the onset/attack naming of spec.md §4.4.5's duck
// envelope, not a generic ADSR: it only ever ramps down then back up.
type duckStage int

const (
	duckIdle duckStage = iota
	duckOnset
	duckAttack
)

// duckEnvelope linearly ramps gain 1 -> (1-depth) over `onset` seconds,
// then (1-depth) -> 1 over `attack` seconds.
type duckEnvelope struct {
	sampleRate float64

	stage          duckStage
	depth          float64
	onsetSamples   int
	attackSamples  int
	samplesInStage int
	value          float64
}

func newDuckEnvelope(sampleRate float64) *duckEnvelope {
	return &duckEnvelope{sampleRate: sampleRate, value: 1}
}

func (d *duckEnvelope) trigger(depth, onsetSec, attackSec float64) {
	d.depth = clamp01(depth)
	d.onsetSamples = int(onsetSec * d.sampleRate)
	d.attackSamples = int(attackSec * d.sampleRate)
	d.stage = duckOnset
	d.samplesInStage = 0
}

func (d *duckEnvelope) step() float64 {
	switch d.stage {
	case duckOnset:
		if d.onsetSamples <= 0 {
			d.value = 1 - d.depth
			d.stage = duckAttack
			d.samplesInStage = 0
		} else {
			frac := float64(d.samplesInStage) / float64(d.onsetSamples)
			d.value = 1 - d.depth*frac
			d.samplesInStage++
			if d.samplesInStage >= d.onsetSamples {
				d.value = 1 - d.depth
				d.stage = duckAttack
				d.samplesInStage = 0
			}
		}
	case duckAttack:
		if d.attackSamples <= 0 {
			d.value = 1
			d.stage = duckIdle
		} else {
			frac := float64(d.samplesInStage) / float64(d.attackSamples)
			d.value = (1 - d.depth) + d.depth*frac
			d.samplesInStage++
			if d.samplesInStage >= d.attackSamples {
				d.value = 1
				d.stage = duckIdle
			}
		}
	case duckIdle:
		d.value = 1
	}
	return d.value
}

// Orbit is a logical mixer bus: its own feedback delay and its own duck
// envelope (the per-frame stereo sum for each orbit is kept in
// Cyclist.frameBus, not here), matching spec.md §4.6's
// Orbit entity. Created lazily and never removed, per the spec's lifecycle
// note, the way the teacher's MultiEngine lazily grows its engine map
// keyed by module number (internal/sequencer/multi_engine.go).
type Orbit struct {
	delay *delayLine
	duck  *duckEnvelope
}

func newOrbit(sampleRate int) *Orbit {
	return &Orbit{
		delay: newDelayLine(sampleRate),
		duck:  newDuckEnvelope(float64(sampleRate)),
	}
}
