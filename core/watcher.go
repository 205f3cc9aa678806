package core

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const watchDebounce = 500 * time.Millisecond

// Watcher 监听模板文件变化
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	debounce time.Duration

	wg   sync.WaitGroup
	quit chan struct{}
}

// NewWatcher watches the directory of path so that editors which replace
// the file are noticed as well.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     abs,
		onChange: onChange,
		debounce: watchDebounce,
		quit:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.listen()
	return w, nil
}

func (w *Watcher) listen() {
	defer w.wg.Done()

	log.Infof("Watching template %s", w.path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.quit:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("Template watcher error: %v", err)

		case <-fire:
			fire = nil
			log.Infof("Template %s changed", w.path)
			w.onChange()
		}
	}
}

func (w *Watcher) Close() {
	close(w.quit)
	w.watcher.Close()

	w.wg.Wait()
}
