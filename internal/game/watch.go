package game

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a data directory and calls back once per burst of changes to *.yaml files.
type FileWatcher struct {
	Dir      string
	Debounce time.Duration
	onChange func(string) // called with the last path that changed
	onError  func(error)

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewFileWatcher creates a watcher for dir. A zero debounce defaults to 200ms.
func NewFileWatcher(dir string, debounce time.Duration, onChange func(string)) *FileWatcher {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &FileWatcher{
		Dir:      dir,
		Debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// OnError sets the handler for watcher errors. Must be called before Start.
func (w *FileWatcher) OnError(fn func(error)) { w.onError = fn }

// Start begins watching in a goroutine.
func (w *FileWatcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.Dir); err != nil {
		fw.Close()
		return err
	}
	w.watcher = fw
	go w.loop()
	return nil
}

// Stop terminates the watcher and waits for the loop to exit.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.watcher != nil {
			w.watcher.Close()
			<-w.done
		}
	})
}

func (w *FileWatcher) loop() {
	defer close(w.done)

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending string
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".yaml" {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending = ev.Name
			timer.Reset(w.Debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		case <-timer.C:
			if pending != "" && w.onChange != nil {
				w.onChange(pending)
			}
			pending = ""
		case <-w.stopCh:
			return
		}
	}
}
