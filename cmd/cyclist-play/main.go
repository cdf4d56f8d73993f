package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tidalforge/cyclist"
	"github.com/tidalforge/cyclist/internal/watch"
)

const defaultPattern = "bd sd bd sd"

func main() {
	var (
		sampleRate  = flag.Int("sample-rate", 48000, "output sample rate")
		cps         = flag.Float64("cps", 0, "cycles per second (overrides -bpm when nonzero)")
		bpm         = flag.Float64("bpm", 120, "tempo in beats per minute, 4 beats/cycle")
		patternPath = flag.String("file", "", "path to a mini-notation file, watched for changes")
		inline      = flag.String("pattern", "", "inline mini-notation string")
		samplesPath = flag.String("samples", "", "directory of sample-bank WAV files")
	)
	flag.Parse()

	src, err := resolvePatternInput(*patternPath, *inline)
	if err != nil {
		log.Fatal(err)
	}

	var opts []cyclist.EngineOption
	if *samplesPath != "" {
		opts = append(opts, cyclist.WithSamplesPath(*samplesPath))
	}
	e, err := cyclist.NewEngine(*sampleRate, opts...)
	if err != nil {
		log.Fatal(err)
	}

	if *cps > 0 {
		e.SetCPS(*cps)
	} else {
		e.SetCPS(*bpm / (60 * 4))
	}

	if err := e.SetPatternFromText(src); err != nil {
		log.Fatal(err)
	}
	e.Play()
	fmt.Println("playing; ctrl-c to stop")

	var w *watch.Watcher
	if *patternPath != "" {
		w, err = watch.New(*patternPath, func(contents string) {
			if err := e.SetPatternFromText(contents); err != nil {
				log.Printf("reload failed: %v", err)
				return
			}
			fmt.Println("pattern reloaded")
		})
		if err != nil {
			log.Fatal(err)
		}
		done := make(chan struct{})
		defer close(done)
		go w.Run(done)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	if w != nil {
		w.Close()
	}
	e.Stop()
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
	return defaultPattern, nil
}
