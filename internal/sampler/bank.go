// Package sampler loads and caches the WAV sample bank referenced by
// mini-notation atom names (spec.md §4.5 step 3's "name doesn't match a
// waveform" fallback). Decoding is grounded on go-audio/wav's Decoder/
// FullPCMBuffer API, the pattern the pack's audio-utility examples use for
// reading PCM into memory (cf. other_examples/..._luisgizirian-lab-audio).
package sampler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/go-audio/wav"

	"github.com/tidalforge/cyclist/internal/voice"
)

// Bank resolves a (name, index) pair to decoded sample data, caching
// decoded files and misses alike and warning at most once per missing
// (name, index) pair.
type Bank struct {
	basePath string

	mu     sync.Mutex
	cache  map[string]*voice.SampleData
	warned map[string]bool
}

func NewBank(basePath string) *Bank {
	return &Bank{basePath: basePath, cache: map[string]*voice.SampleData{}, warned: map[string]bool{}}
}

// Get returns the decoded sample for name at index n (sample banks may
// hold several numbered variants, e.g. bd/bd-0.wav, bd/bd-1.wav). A miss
// is logged once and reported via ok=false; callers should treat that as
// "play nothing" rather than fail the whole pattern.
func (b *Bank) Get(name string, n int) (*voice.SampleData, bool) {
	key := name + ":" + strconv.Itoa(n)
	b.mu.Lock()
	defer b.mu.Unlock()

	if d, ok := b.cache[key]; ok {
		return d, d != nil
	}

	path := b.resolvePath(name, n)
	data, err := b.load(path)
	if err != nil {
		if !b.warned[key] {
			b.warned[key] = true
			log.Printf("sampler: could not load %q (index %d): %v", name, n, err)
		}
		b.cache[key] = nil
		return nil, false
	}
	b.cache[key] = data
	return data, true
}

func (b *Bank) resolvePath(name string, n int) string {
	direct := filepath.Join(b.basePath, name, fmt.Sprintf("%s-%d.wav", name, n))
	if _, err := os.Stat(direct); err == nil {
		return direct
	}
	flat := filepath.Join(b.basePath, fmt.Sprintf("%s.wav", name))
	return flat
}

func (b *Bank) load(path string) (*voice.SampleData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("decode %s: unknown format", path)
	}

	numChans := buf.Format.NumChannels
	frames := len(buf.Data) / numChans
	channels := make([][]float32, numChans)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}

	maxVal := float32(int(1) << uint(buf.SourceBitDepth-1))
	if buf.SourceBitDepth <= 0 {
		maxVal = 32768
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			channels[c][i] = float32(buf.Data[i*numChans+c]) / maxVal
		}
	}

	return &voice.SampleData{Channels: channels, SampleRate: float64(buf.Format.SampleRate)}, nil
}
