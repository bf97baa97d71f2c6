package corpus

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce window for editors that write files in several events.
const watchDebounce = 250 * time.Millisecond

// Watch reloads the corpus whenever its file source changes. It blocks
// until ctx is cancelled and is a no-op for network sources.
func (l *Loader) Watch(ctx context.Context) error {
	if l.source.FilePath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(l.source.FilePath); err != nil {
		return err
	}

	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(watchDebounce, func() {
				if err := l.Refresh(ctx); err != nil {
					l.log.Warn().Err(err).Msg("corpus reload after file change failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.log.Warn().Err(err).Msg("corpus file watcher error")
		}
	}
}
