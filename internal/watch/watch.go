// Package watch hot-reloads a pattern source file: on each write or
// create, it re-reads the file and hands its contents to a caller-supplied
// callback, which compiles and installs the pattern. Grounded on fsnotify's Watcher API the way
// RetroCodeRamen-Nitro-Core-DX's config layer uses it for live config
// reload, generalised here to a single-file pattern source.
package watch

import (
	"log"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file path and invokes onChange with its contents
// each time it is written.
type Watcher struct {
	path     string
	onChange func(contents string)
	fsw      *fsnotify.Watcher
}

func New(path string, onChange func(contents string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{path: path, onChange: onChange, fsw: fsw}, nil
}

// Run blocks, dispatching onChange on every write/create event, until
// done is closed.
func (w *Watcher) Run(done <-chan struct{}) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			contents, err := os.ReadFile(w.path)
			if err != nil {
				log.Printf("watch: reading %s: %v", w.path, err)
				continue
			}
			w.onChange(string(contents))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		case <-done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
