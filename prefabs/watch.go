package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// ChangeKind classifies a changed prefab file.
type ChangeKind int

const (
	ChangeSpec ChangeKind = iota
	ChangeScript
)

// Change reports a prefab file that was written, created or replaced. Name is
// relative to the prefab directory, e.g. "launcher.yaml" or
// "scripts/monster.tengo".
type Change struct {
	Name string
	Kind ChangeKind
}

// Watcher turns fsnotify events under the prefab directories into debounced
// Changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches root and its scripts subdirectory when present.
func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(root); err != nil {
		_ = w.Close()
		return nil, err
	}
	scripts := filepath.Join(root, "scripts")
	if err := w.Add(scripts); err != nil && !isNotExist(err) {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		root:    root,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			change, ok := w.classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[change.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[change.Name] = now
			select {
			case w.Events <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) classify(path string) (Change, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	switch {
	case isSpecFile(rel):
		return Change{Name: rel, Kind: ChangeSpec}, true
	case isScriptFile(rel):
		return Change{Name: rel, Kind: ChangeScript}, true
	default:
		return Change{}, false
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
