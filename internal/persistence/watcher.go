package persistence

import (
	"fmt"
	"path/filepath"

	"github.com/arayel/squrl/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// CompanionEnvWatcher watches a directory for changes to squrl-env.json and
// signals Changed() on creation or modification, per original_source's
// spawn_env_json_watcher. It only signals: nothing in this module reloads
// the file in response, so no reload of any collection (.http or other)
// takes place.
type CompanionEnvWatcher struct {
	watcher *fsnotify.Watcher
	target  string
	changed chan struct{}
	log     *logging.Logger
}

// NewCompanionEnvWatcher starts watching dir (non-recursively) for changes
// to its squrl-env.json file.
func NewCompanionEnvWatcher(dir string, log *logging.Logger) (*CompanionEnvWatcher, error) {
	if log == nil {
		log = logging.Default
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("persistence: create file watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("persistence: watch directory %q: %w", dir, err)
	}

	cew := &CompanionEnvWatcher{
		watcher: w,
		target:  filepath.Join(dir, CompanionEnvFileName),
		changed: make(chan struct{}, 1),
		log:     log,
	}
	go cew.run()
	return cew, nil
}

func (w *CompanionEnvWatcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.log.Debugf("squrl-env.json changed on disk: %s", event.Name)
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("file watcher error: %v", err)
		}
	}
}

// Changed returns a channel that receives a value whenever squrl-env.json
// is created or modified. The channel is buffered with capacity 1; rapid
// successive changes collapse into a single pending notification.
func (w *CompanionEnvWatcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops the watcher.
func (w *CompanionEnvWatcher) Close() error {
	return w.watcher.Close()
}
