package files

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Event reports a change inside the watched directory, or a watcher
// error. Consumers filter events down to the file they care about.
type Event struct {
	Path string
	Err  error
}

// Watcher follows the directory holding the active file and forwards
// change events. One directory is watched at a time; Watch switches it
// when the active file moves elsewhere.
type Watcher struct {
	fsw    *fsnotify.Watcher
	dir    string
	events chan Event
}

func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, events: make(chan Event, 8)}
	go w.loop()
	return w, nil
}

// Watch points the watcher at the directory containing path. Watching
// the directory rather than the file keeps events flowing across
// editors that replace files on save.
func (w *Watcher) Watch(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.fsw.Remove(w.dir)
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	return nil
}

// Events returns the change stream. It closes when the watcher closes.
func (w *Watcher) Events() <-chan Event { return w.events }

func (w *Watcher) Close() error { return w.fsw.Close() }

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.events <- Event{Path: ev.Name}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.events <- Event{Err: err}
		}
	}
}
