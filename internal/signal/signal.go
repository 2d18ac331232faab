// Package signal watches the workspace control directory for out-of-band
// cancellation requests. Dropping a file named cancel_<task-id> into
// <workspace>/.deskpilot/signals cancels that task, letting external tools
// stop runs without going through the HTTP surface.
package signal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const cancelPrefix = "cancel_"

// Watcher monitors the signals directory and forwards cancellation requests.
type Watcher struct {
	dir      string
	log      zerolog.Logger
	onCancel func(taskID string) error

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates the signals directory under the workspace base and starts
// watching it. onCancel is invoked with the task id from each cancel file.
func New(base string, log zerolog.Logger, onCancel func(taskID string) error) (*Watcher, error) {
	dir := filepath.Join(base, ".deskpilot", "signals")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		log:      log,
		onCancel: onCancel,
		watcher:  fw,
		done:     make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

// Dir returns the watched signals directory.
func (w *Watcher) Dir() string {
	return w.dir
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.handle(event.Name)
		case <-w.watcher.Errors:
			// keep watching
		}
	}
}

// handle consumes one signal file. The file is removed after processing so
// the same task id can be signalled again later.
func (w *Watcher) handle(path string) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, cancelPrefix) {
		return
	}
	taskID := strings.TrimPrefix(base, cancelPrefix)
	if taskID == "" {
		return
	}
	if err := w.onCancel(taskID); err != nil {
		w.log.Warn().Str("task_id", taskID).Err(err).Msg("cancel signal rejected")
	} else {
		w.log.Info().Str("task_id", taskID).Msg("cancel signal applied")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.log.Debug().Str("path", path).Err(err).Msg("removing signal file")
	}
}

// Close stops watching. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
