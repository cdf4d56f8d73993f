package cyclist

import (
	"encoding/binary"
	"math"

	intcyclist "github.com/tidalforge/cyclist/internal/cyclist"
	"github.com/tidalforge/cyclist/internal/notation"
	"github.com/tidalforge/cyclist/internal/sampler"
)

// RenderSamples compiles src, runs it through a fresh scheduler at the
// given sample rate and cps for the given duration, and returns an
// interleaved stereo float32 buffer (no audio device involved).
func RenderSamples(src string, sampleRate int, cps float64, seconds float64, samplesPath string) ([]float32, error) {
	p, err := notation.Compile(src)
	if err != nil {
		return nil, err
	}
	var bank *sampler.Bank
	if samplesPath != "" {
		bank = sampler.NewBank(samplesPath)
	}
	sched := intcyclist.New(sampleRate, bank)
	sched.SetCPS(cps)
	sched.SetPattern(p)

	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*2)
	sched.Process(out)
	return out, nil
}

// EncodeWAVFloat32LE writes samples as a 32-bit IEEE-float PCM WAV file,
// matching the teacher's hand-rolled offline encoder — kept as-is since
// go-audio/wav's public Encoder targets integer PCM via *audio.IntBuffer,
// not float32 PCM, and this format is what RenderSamples' output needs.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
