// Package cyclist implements the real-time scheduler/mixer: it advances a
// cycle cursor, queries the active pattern once per audio block, spawns
// voices on onset haps, mixes them through per-orbit delay and ducking,
// and emits an interleaved stereo block. Its Process([]float32) signature
// and single-audio-thread ownership model are grounded on the teacher's
// internal/sequencer.Sequencer.Process, so the same internal/audio.Player
// adapter drives both unmodified.
package cyclist

import (
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/tidalforge/cyclist/internal/pattern"
	"github.com/tidalforge/cyclist/internal/rational"
	"github.com/tidalforge/cyclist/internal/sampler"
	"github.com/tidalforge/cyclist/internal/voice"
)

type activeVoice struct {
	v     voice.Voice
	orbit int
}

// Cyclist is the real-time scheduler/mixer. The zero value is not usable;
// construct with New.
type Cyclist struct {
	sampleRate int
	cps        uint64 // atomic, bits of a float64

	mu       sync.Mutex
	cursor   rational.Rational
	voices   []activeVoice
	orbits   map[int]*Orbit
	smoothed float64

	// frameBus is scratch space reused across renderFrame calls so the
	// per-sample mix loop doesn't allocate a fresh map every frame.
	frameBus map[int][2]float32

	activePattern atomic.Value // holds pattern.Pattern
	bank          *sampler.Bank
}

func New(sampleRate int, bank *sampler.Bank) *Cyclist {
	c := &Cyclist{
		sampleRate: sampleRate,
		orbits:     map[int]*Orbit{},
		frameBus:   map[int][2]float32{},
		smoothed:   1,
		bank:       bank,
	}
	c.activePattern.Store(pattern.Silence())
	c.SetCPS(1)
	return c
}

func (c *Cyclist) SetCPS(cps float64) {
	atomic.StoreUint64(&c.cps, math.Float64bits(cps))
}

func (c *Cyclist) CPS() float64 {
	return math.Float64frombits(atomic.LoadUint64(&c.cps))
}

// SetPattern installs a new pattern, taking effect from the next block.
// Safe to call from any goroutine.
func (c *Cyclist) SetPattern(p pattern.Pattern) {
	c.activePattern.Store(p)
}

// Reset rewinds the cycle cursor to zero and clears all active voices,
// without touching orbit delay/duck state.
func (c *Cyclist) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = rational.Zero
	c.voices = nil
}

func (c *Cyclist) getOrCreateOrbit(n int) *Orbit {
	if o, ok := c.orbits[n]; ok {
		return o
	}
	o := newOrbit(c.sampleRate)
	c.orbits[n] = o
	return o
}

// Process renders len(dst)/2 interleaved stereo frames, querying the
// active pattern once for the whole block (block-accurate scheduling per
// spec.md's Non-goals) and advancing the cursor by the block's cycle
// duration.
func (c *Cyclist) Process(dst []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	frames := len(dst) / 2
	if frames == 0 {
		return
	}
	cps := c.CPS()
	if cps <= 0 {
		cps = 1
	}
	blockCycles := rational.FromFloat(float64(frames) / float64(c.sampleRate) * cps)
	span := rational.NewSpan(c.cursor, c.cursor.Add(blockCycles))

	p, _ := c.activePattern.Load().(pattern.Pattern)
	haps := c.queryRecovered(p, span)

	for _, h := range haps {
		if !h.HasOnset() {
			continue
		}
		c.spawnVoice(h, cps)
	}

	for f := 0; f < frames; f++ {
		c.renderFrame(dst, f)
	}

	c.cursor = span.End
	c.pruneVoices()
}

func (c *Cyclist) queryRecovered(p pattern.Pattern, span rational.Span) (haps []pattern.Hap) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("cyclist: pattern query panicked: %v", r)
			haps = nil
		}
	}()
	return p.Query(pattern.Query{Span: span})
}

func (c *Cyclist) renderFrame(dst []float32, f int) {
	for orbitNum := range c.orbits {
		c.frameBus[orbitNum] = [2]float32{0, 0}
	}

	activeCount := 0
	for _, av := range c.voices {
		if !av.v.Playing() {
			continue
		}
		activeCount++
		l, r := av.v.Render()
		theta := av.v.Pan() * math.Pi / 2
		l *= float32(math.Cos(theta))
		r *= float32(math.Sin(theta))
		buf := c.frameBus[av.orbit]
		buf[0] += l
		buf[1] += r
		c.frameBus[av.orbit] = buf
	}

	var sumL, sumR float32
	for orbitNum, buf := range c.frameBus {
		o := c.orbits[orbitNum]
		dl, dr := o.delay.process(buf[0], buf[1])
		duckGain := float32(o.duck.step())
		sumL += dl * duckGain
		sumR += dr * duckGain
	}

	target := 1.0
	if activeCount > 1 {
		target = 1 / math.Sqrt(float64(activeCount))
	}
	c.smoothed = c.smoothed*0.999 + target*0.001
	sumL *= float32(c.smoothed)
	sumR *= float32(c.smoothed)

	const limitThreshold = 0.8
	sumL = softLimit(sumL, limitThreshold)
	sumR = softLimit(sumR, limitThreshold)

	dst[f*2] = sumL
	dst[f*2+1] = sumR
}

func softLimit(x float32, threshold float32) float32 {
	ax := x
	if ax < 0 {
		ax = -ax
	}
	if ax <= threshold {
		return x
	}
	return float32(math.Tanh(float64(x)))
}

func (c *Cyclist) pruneVoices() {
	kept := c.voices[:0]
	for _, av := range c.voices {
		if av.v.Playing() {
			kept = append(kept, av)
		}
	}
	c.voices = kept
}
