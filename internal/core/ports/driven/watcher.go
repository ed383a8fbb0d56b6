package driven

import (
	"context"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

// FileEventType is the kind of filesystem change observed by a watcher.
type FileEventType int

const (
	// FileCreated indicates a new file appeared.
	FileCreated FileEventType = iota

	// FileModified indicates a file's contents changed.
	FileModified

	// FileRemoved indicates a file was deleted or renamed away.
	FileRemoved
)

// FileEvent is a single filesystem change with the affected raw document.
// Document.Content is empty for FileRemoved events.
type FileEvent struct {
	// Type is the kind of change.
	Type FileEventType

	// Document is the affected raw document.
	Document domain.RawDocument
}

// DirectoryWatcher observes a directory and reports file changes for
// re-ingestion. Events stop when the context is cancelled.
type DirectoryWatcher interface {
	// Watch starts watching the directory and returns event and error channels.
	// Both channels close when ctx is cancelled.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, <-chan error)

	// Close releases watcher resources.
	Close() error
}
