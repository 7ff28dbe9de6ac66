// Package watcher reports changes to the settings file and the user icon
// theme so a running applet can reload them.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventSettingsChanged EventType = iota
	EventIconsChanged
)

func (t EventType) String() string {
	if t == EventIconsChanged {
		return "icons-changed"
	}
	return "settings-changed"
}

const defaultDebounce = 100 * time.Millisecond

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the settings file and icon directories.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	eventsChan   chan Event
	done         chan struct{}
	stopOnce     sync.Once
	settingsPath string
	iconDirs     []string
	delay        time.Duration
	debounce     map[string]*time.Timer
	debounceMu   sync.Mutex
}

// New creates a watcher for settingsPath and the given icon theme roots.
func New(settingsPath string, iconDirs []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(iconDirs))
	for _, d := range iconDirs {
		dirs = append(dirs, filepath.Clean(d))
	}

	return &Watcher{
		fsWatcher:    fsWatcher,
		eventsChan:   make(chan Event, 16),
		done:         make(chan struct{}),
		settingsPath: filepath.Clean(settingsPath),
		iconDirs:     dirs,
		delay:        defaultDebounce,
		debounce:     make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts the watcher. The settings directory must exist; icon
// directories that do not are skipped.
func (w *Watcher) Start() error {
	// Watch the directory so atomic renames onto settings.yaml are seen
	if err := w.fsWatcher.Add(filepath.Dir(w.settingsPath)); err != nil {
		return err
	}

	for _, dir := range w.iconDirs {
		w.watchIconDir(dir)
		sizes, _ := filepath.Glob(filepath.Join(dir, "*x*"))
		for _, s := range sizes {
			w.watchIconDir(s)
		}
	}

	go w.processEvents()
	return nil
}

func (w *Watcher) watchIconDir(dir string) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		log.Printf("[watcher] Warning: failed to watch icon dir %s: %v", dir, err)
		return
	}
	log.Printf("[watcher] Watching icon dir %s", dir)
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] Watcher error: %v", err)
		}
	}
}

// handleEvent classifies and debounces a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Rename matters: SaveYAML and most editors write a temp file and
	// rename it onto the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	eventType, ok := w.classify(filepath.Clean(event.Name))
	if !ok {
		return
	}

	// Debounce per event type, a theme copy touches many files
	key := eventType.String()
	w.debounceEvent(key, func() {
		log.Printf("[watcher] %s: %s", eventType, event.Name)
		select {
		case w.eventsChan <- Event{Type: eventType, Path: event.Name}:
		case <-w.done:
		}
	})
}

func (w *Watcher) classify(path string) (EventType, bool) {
	if path == w.settingsPath {
		return EventSettingsChanged, true
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return 0, false
	}
	for _, dir := range w.iconDirs {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return EventIconsChanged, true
		}
	}
	return 0, false
}

// debounceEvent debounces events for the same key.
func (w *Watcher) debounceEvent(key string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	// Cancel existing timer
	if timer, ok := w.debounce[key]; ok {
		timer.Stop()
	}

	w.debounce[key] = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, key)
		w.debounceMu.Unlock()
		fn()
	})
}
