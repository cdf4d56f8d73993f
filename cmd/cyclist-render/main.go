package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/tidalforge/cyclist"
)

func main() {
	var (
		sampleRate  = flag.Int("sample-rate", 48000, "output sample rate")
		cps         = flag.Float64("cps", 0, "cycles per second (overrides -bpm when nonzero)")
		bpm         = flag.Float64("bpm", 120, "tempo in beats per minute, 4 beats/cycle")
		patternPath = flag.String("file", "", "path to a mini-notation file")
		inline      = flag.String("pattern", "", "inline mini-notation string")
		samplesPath = flag.String("samples", "", "directory of sample-bank WAV files")
		seconds     = flag.Float64("seconds", 4, "duration to render")
		out         = flag.String("out", "out.wav", "output WAV path")
	)
	flag.Parse()

	src, err := resolvePatternInput(*patternPath, *inline)
	if err != nil {
		log.Fatal(err)
	}

	rateCPS := *cps
	if rateCPS <= 0 {
		rateCPS = *bpm / (60 * 4)
	}

	samples, err := cyclist.RenderSamples(src, *sampleRate, rateCPS, *seconds, *samplesPath)
	if err != nil {
		log.Fatal(err)
	}

	data := cyclist.EncodeWAVFloat32LE(samples, *sampleRate, 2)
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal(err)
	}
}

func resolvePatternInput(path, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "bd sd bd sd", nil
}
