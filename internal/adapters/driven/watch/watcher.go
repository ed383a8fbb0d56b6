// Package watch provides a fsnotify-backed directory watcher.
//
// The watcher translates raw filesystem notifications into FileEvents
// carrying the affected raw document, ready for re-ingestion. Editors
// commonly emit bursts of writes for a single save, so events for the
// same path are debounced before being delivered.
package watch

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.DirectoryWatcher = (*Watcher)(nil)

// DefaultDebounce is the settle period applied to write bursts.
const DefaultDebounce = 250 * time.Millisecond

// extraMIMETypes covers extensions the platform MIME database may miss.
var extraMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".json":     "application/json",
	".csv":      "text/csv",
	".log":      "text/plain",
}

// Watcher observes a directory using fsnotify.
type Watcher struct {
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// Option configures the Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle period for write bursts.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a directory watcher.
func NewWatcher(opts ...Option) *Watcher {
	w := &Watcher{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching the directory and returns event and error channels.
// Both channels close when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan driven.FileEvent, <-chan error) {
	events := make(chan driven.FileEvent)
	errs := make(chan error, 1)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		errs <- err
		close(events)
		close(errs)
		return events, errs
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		errs <- err
		close(events)
		close(errs)
		return events, errs
	}

	w.mu.Lock()
	w.watcher = fsw
	w.mu.Unlock()

	go w.run(ctx, fsw, events, errs)

	return events, errs
}

// run pumps fsnotify events into the typed event channel until ctx ends.
func (w *Watcher) run(
	ctx context.Context,
	fsw *fsnotify.Watcher,
	events chan<- driven.FileEvent,
	errs chan<- error,
) {
	defer close(events)
	defer close(errs)
	defer fsw.Close()

	// pending tracks paths seen during the current debounce window.
	pending := make(map[string]fsnotify.Op)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		for path, op := range pending {
			event, ok := w.translate(path, op)
			if !ok {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
		pending = make(map[string]fsnotify.Op)
		timerC = nil
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[ev.Name] |= ev.Op
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			select {
			case errs <- err:
			case <-ctx.Done():
				return
			}

		case <-timerC:
			flush()
		}
	}
}

// translate converts an accumulated fsnotify op into a typed FileEvent.
// Returns false for paths that should be skipped (directories, unreadable files).
func (w *Watcher) translate(path string, op fsnotify.Op) (driven.FileEvent, bool) {
	if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return driven.FileEvent{
			Type: driven.FileRemoved,
			Document: domain.RawDocument{
				URI:      "file://" + path,
				MIMEType: MIMETypeForPath(path),
			},
		}, true
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return driven.FileEvent{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return driven.FileEvent{}, false
	}

	eventType := driven.FileModified
	if op&fsnotify.Create != 0 {
		eventType = driven.FileCreated
	}

	return driven.FileEvent{
		Type: eventType,
		Document: domain.RawDocument{
			URI:      "file://" + path,
			MIMEType: MIMETypeForPath(path),
			Content:  content,
			Metadata: map[string]any{
				"filename": filepath.Base(path),
				"size":     info.Size(),
			},
		},
	}, true
}

// Close releases watcher resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// MIMETypeForPath guesses the MIME type of a file from its extension.
// Unknown extensions default to text/plain so the plaintext normaliser
// gets a chance at the content.
func MIMETypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mimeType, ok := extraMIMETypes[ext]; ok {
		return mimeType
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "text/plain"
}
