package orchestrator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SignalWatcher interrupts workers in response to filesystem signals.
// Dropping a file named <workerID>.stop into the signal directory
// interrupts that worker and nothing else; an operator can do it with
// touch while an orchestration is running.
type SignalWatcher struct {
	dir       string
	watcher   *fsnotify.Watcher
	interrupt func(workerID string)
	logger    *zap.Logger
	done      chan struct{}
}

// NewSignalWatcher starts watching dir, creating it if needed. interrupt
// is called with the worker id for each stop signal observed.
func NewSignalWatcher(dir string, interrupt func(workerID string), logger *zap.Logger) (*SignalWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	sw := &SignalWatcher{
		dir:       dir,
		watcher:   watcher,
		interrupt: interrupt,
		logger:    logger,
		done:      make(chan struct{}),
	}
	go sw.loop()
	return sw, nil
}

func (sw *SignalWatcher) loop() {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			workerID, found := strings.CutSuffix(name, ".stop")
			if !found || workerID == "" {
				continue
			}
			sw.logger.Info("stop signal observed", zap.String("worker_id", workerID))
			sw.interrupt(workerID)
			// Consume the signal so a later run isn't re-interrupted.
			_ = os.Remove(event.Name)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("signal watcher error", zap.Error(err))
		case <-sw.done:
			return
		}
	}
}

// Close stops the watcher.
func (sw *SignalWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}
