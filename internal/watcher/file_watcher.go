package watcher

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Options configures which paths a watcher reports.
type Options struct {
	// Debounce is the quiet period before firing the callback.
	Debounce time.Duration

	// Match reports whether a changed file is of interest. Nil matches all.
	Match func(path string) bool

	// SkipDir reports whether a directory should not be watched. The watched
	// roots themselves are never skipped.
	SkipDir func(path string) bool
}

// fileWatcher implements FileWatcher on top of fsnotify.
type fileWatcher struct {
	fsw      *fsnotify.Watcher
	opts     Options
	onChange func(files []string)
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	// ready asks the loop goroutine, the only caller of onChange, to flush.
	ready chan struct{}

	mu      sync.Mutex
	paused  bool
	pending map[string]struct{}
	timer   *time.Timer
}

// NewFileWatcher creates a file watcher for dirs, watched recursively.
func NewFileWatcher(dirs []string, opts Options) (FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fw := &fileWatcher{
		fsw:     fsw,
		opts:    opts,
		pending: make(map[string]struct{}),
		ready:   make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := fw.watchTree(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return fw, nil
}

// Start begins delivering batches of changed files to onChange.
func (fw *fileWatcher) Start(ctx context.Context, onChange func(files []string)) error {
	if onChange == nil {
		return nil
	}

	fw.onChange = onChange
	ctx, fw.cancel = context.WithCancel(ctx)

	go fw.loop(ctx)
	return nil
}

// Stop ends watching. It is safe to call more than once, and before Start.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.done
		}
		fw.stopTimer()
		err = fw.fsw.Close()
	})
	return err
}

// Pause holds batches back; changes keep accumulating.
func (fw *fileWatcher) Pause() {
	fw.mu.Lock()
	fw.paused = true
	fw.mu.Unlock()
}

// Resume re-enables delivery; whatever accumulated while paused is sent
// from the watch loop.
func (fw *fileWatcher) Resume() {
	fw.mu.Lock()
	wasPaused := fw.paused
	fw.paused = false
	fw.mu.Unlock()

	if wasPaused {
		fw.signal()
	}
}

func (fw *fileWatcher) loop(ctx context.Context) {
	defer close(fw.done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			if fw.handleDirectory(event) || !fw.interesting(event) {
				continue
			}

			fw.mu.Lock()
			fw.pending[event.Name] = struct{}{}
			fw.mu.Unlock()
			fw.restartTimer()

		case <-fw.ready:
			fw.mu.Lock()
			paused := fw.paused
			fw.mu.Unlock()
			if !paused {
				fw.flush()
			}

		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// handleDirectory starts watching directories created after Start. It
// reports whether the event was about a directory.
func (fw *fileWatcher) handleDirectory(event fsnotify.Event) bool {
	if event.Op&fsnotify.Create == 0 {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return false
	}
	if fw.opts.SkipDir != nil && fw.opts.SkipDir(event.Name) {
		return true
	}
	if err := fw.watchTree(event.Name); err != nil {
		log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
	}
	return true
}

// flush delivers every pending file, sorted.
func (fw *fileWatcher) flush() {
	fw.mu.Lock()
	if len(fw.pending) == 0 {
		fw.mu.Unlock()
		return
	}
	files := make([]string, 0, len(fw.pending))
	for file := range fw.pending {
		files = append(files, file)
	}
	fw.pending = make(map[string]struct{})
	fw.mu.Unlock()

	sort.Strings(files)
	fw.onChange(files)
}

// signal wakes the loop without blocking; one pending wakeup is enough.
func (fw *fileWatcher) signal() {
	select {
	case fw.ready <- struct{}{}:
	default:
	}
}

// restartTimer signals once no event arrived for the debounce period.
func (fw *fileWatcher) restartTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.opts.Debounce, fw.signal)
}

func (fw *fileWatcher) stopTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
}

// interesting keeps writes, creates, removes and renames of matching files.
func (fw *fileWatcher) interesting(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return fw.opts.Match == nil || fw.opts.Match(event.Name)
}

// watchTree adds root and every directory below it that SkipDir allows.
func (fw *fileWatcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fw.opts.SkipDir != nil && fw.opts.SkipDir(path) {
			return filepath.SkipDir
		}
		if err := fw.fsw.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
