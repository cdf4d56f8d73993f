// Package cyclist is a live-codeable pattern engine in the Tidal Cycles/
// Strudel tradition: mini-notation compiles to lazy, rational-time
// patterns, which a real-time scheduler queries block by block to drive
// synth and sample voices through a per-orbit mixer.
package cyclist

import (
	"errors"
	"math"
	"sync/atomic"

	intaudio "github.com/tidalforge/cyclist/internal/audio"
	intcyclist "github.com/tidalforge/cyclist/internal/cyclist"
	intfx "github.com/tidalforge/cyclist/internal/effects"
	"github.com/tidalforge/cyclist/internal/notation"
	"github.com/tidalforge/cyclist/internal/pattern"
	"github.com/tidalforge/cyclist/internal/sampler"
)

// globalCPS holds the process-wide tempo in cycles per second, stored as
// atomic float bits the way the teacher's fm.Engine keeps its lock-free
// master gain (internal/fm/engine.go).
var globalCPS uint64

func init() {
	atomic.StoreUint64(&globalCPS, math.Float64bits(0.5))
}

// GlobalCPS returns the process-wide tempo in cycles per second.
func GlobalCPS() float64 {
	return math.Float64frombits(atomic.LoadUint64(&globalCPS))
}

// SetGlobalCPS sets the process-wide tempo.
func SetGlobalCPS(cps float64) {
	if cps <= 0 {
		cps = 0.5
	}
	atomic.StoreUint64(&globalCPS, math.Float64bits(cps))
}

// CPM returns the process-wide tempo in cycles per minute.
func CPM() float64 { return GlobalCPS() * 60 }

// SetCPM sets the process-wide tempo from cycles per minute.
func SetCPM(cpm float64) { SetGlobalCPS(cpm / 60) }

// BPM returns the tempo in beats per minute, given bpc beats per cycle
// (spec.md §6's general bpm(bpc) helper; one cycle = one bar of bpc beats).
func BPM(bpc float64) float64 { return GlobalCPS() * 60 * bpc }

// SetBPM sets the process-wide tempo from beats per minute and beats per
// cycle (spec.md §6: setbpm(bpm, bpc=4) ≡ setcps(bpm/(60*bpc))).
func SetBPM(bpm float64, bpc float64) {
	if bpc <= 0 {
		bpc = 4
	}
	SetGlobalCPS(bpm / (60 * bpc))
}

// EngineOption configures a new Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	samplesPath string
	masterEQ    bool
}

func defaultEngineConfig() engineConfig {
	return engineConfig{masterEQ: true}
}

// WithSamplesPath sets the directory the sample bank loads WAV files from.
func WithSamplesPath(path string) EngineOption {
	return func(cfg *engineConfig) {
		cfg.samplesPath = path
	}
}

// Engine wires the scheduler, sample bank, and audio output together
// behind a small live-coding API: compile mini-notation, hand it to the
// scheduler, and play.
type Engine struct {
	sampleRate int
	sched      *intcyclist.Cyclist
	bank       *sampler.Bank
	audio      *intaudio.Player
	masterEQ   *intfx.EQ5Band
	masterFX   *intfx.Chain
}

type engineSource struct {
	sched    *intcyclist.Cyclist
	masterEQ *intfx.EQ5Band
	masterFX *intfx.Chain
}

func (s *engineSource) Process(dst []float32) {
	s.sched.Process(dst)
	if s.masterFX != nil {
		for i := 0; i+1 < len(dst); i += 2 {
			dst[i], dst[i+1] = s.masterFX.Process(dst[i], dst[i+1])
		}
	}
	if s.masterEQ != nil {
		for i := 0; i+1 < len(dst); i += 2 {
			dst[i], dst[i+1] = s.masterEQ.Process(dst[i], dst[i+1])
		}
	}
}

// NewEngine builds an Engine at the given sample rate with a silent
// pattern installed; output starts only once Play is called.
func NewEngine(sampleRate int, opts ...EngineOption) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var bank *sampler.Bank
	if cfg.samplesPath != "" {
		bank = sampler.NewBank(cfg.samplesPath)
	}

	sched := intcyclist.New(sampleRate, bank)
	sched.SetCPS(GlobalCPS())

	e := &Engine{
		sampleRate: sampleRate,
		sched:      sched,
		bank:       bank,
		masterFX:   intfx.NewChain(),
	}
	if cfg.masterEQ {
		e.masterEQ = intfx.NewEQ5Band(sampleRate)
	}

	src := &engineSource{sched: sched, masterEQ: e.masterEQ, masterFX: e.masterFX}
	player, err := intaudio.NewPlayer(sampleRate, src)
	if err != nil {
		return nil, err
	}
	e.audio = player
	return e, nil
}

// AddMasterEffect appends an effect to the optional master insert chain,
// applied after the scheduler's per-orbit mix and before the master EQ.
func (e *Engine) AddMasterEffect(eff intfx.Effector) {
	e.masterFX.Add(eff)
}

// SetPatternFromText compiles src as mini-notation and installs it.
func (e *Engine) SetPatternFromText(src string) error {
	p, err := notation.Compile(src)
	if err != nil {
		return err
	}
	e.sched.SetPattern(p)
	return nil
}

// SetPattern installs an already-built pattern.
func (e *Engine) SetPattern(p pattern.Pattern) {
	e.sched.SetPattern(p)
}

// SetCPS overrides the engine's tempo independently of the process-wide
// GlobalCPS.
func (e *Engine) SetCPS(cps float64) {
	e.sched.SetCPS(cps)
}

// Reset rewinds the cycle cursor and clears active voices.
func (e *Engine) Reset() {
	e.sched.Reset()
}

func (e *Engine) Play() {
	e.audio.Play()
}

func (e *Engine) Pause() {
	e.audio.Pause()
}

func (e *Engine) Stop() error {
	return e.audio.Stop()
}

// SetEQBand sets the gain for a master EQ band (0-4), 1.0 = unity.
func (e *Engine) SetEQBand(band int, gain float32) {
	if e.masterEQ != nil {
		e.masterEQ.SetGain(band, gain)
	}
}
