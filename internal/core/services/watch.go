package services

import (
	"context"
	"errors"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/ragdex-labs/ragdex-cli/internal/logger"
)

// WatchService keeps a directory in sync with the document library.
// Created and modified files are ingested, removed files are deleted.
type WatchService struct {
	watcher driven.DirectoryWatcher
	ingest  driving.IngestService
}

// NewWatchService creates a new watch service.
func NewWatchService(watcher driven.DirectoryWatcher, ingest driving.IngestService) *WatchService {
	return &WatchService{
		watcher: watcher,
		ingest:  ingest,
	}
}

// Run watches the directory and processes events until ctx is cancelled.
// Individual ingestion failures are logged and do not stop the watch.
func (s *WatchService) Run(ctx context.Context, dir string) error {
	logger.Section("Directory Watch")
	logger.Info("Watching %s", dir)

	events, errs := s.watcher.Watch(ctx, dir)

	// A failure before any event (bad directory) should abort the watch;
	// errors after that point are transient and only logged.
	var lastErr error
	sawEvent := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				if sawEvent {
					return nil
				}
				// Drain remaining errors so a startup failure is reported
				if errs != nil {
					for err := range errs {
						if err != nil {
							lastErr = err
						}
					}
				}
				return lastErr
			}
			sawEvent = true
			s.handle(ctx, event)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				lastErr = err
				logger.Warn("Watch error: %v", err)
			}
		}
	}
}

// handle processes a single file event.
func (s *WatchService) handle(ctx context.Context, event driven.FileEvent) {
	switch event.Type {
	case driven.FileCreated, driven.FileModified:
		result, err := s.ingest.IngestRaw(ctx, &event.Document)
		if err != nil {
			logger.Warn("Failed to ingest %s: %v", event.Document.URI, err)
			return
		}
		logger.Info("Ingested %s (%d chunks, replaced=%t)",
			event.Document.URI, result.ChunkCount, result.Replaced)

	case driven.FileRemoved:
		if err := s.ingest.Remove(ctx, event.Document.URI); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return // Never ingested, nothing to remove
			}
			logger.Warn("Failed to remove %s: %v", event.Document.URI, err)
			return
		}
		logger.Info("Removed %s", event.Document.URI)
	}
}
