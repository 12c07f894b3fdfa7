package knowledge

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch enables the in-memory parse cache and invalidates it whenever a
// knowledge document changes on disk. Purely an optimization: observable
// retrieval behavior is the same with or without it. Blocks until ctx is
// done or the watcher fails.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch knowledge dir: %w", err)
	}

	s.mu.Lock()
	s.watchActive = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.watchActive = false
		s.valid = false
		s.cached = nil
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if DetectFormat(event.Name) == FormatUnknown {
				continue
			}
			s.invalidate()
			s.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("knowledge cache invalidated")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch knowledge dir: %w", err)
		}
	}
}

func (s *Store) invalidate() {
	s.mu.Lock()
	s.gen++
	s.valid = false
	s.cached = nil
	s.mu.Unlock()
}
