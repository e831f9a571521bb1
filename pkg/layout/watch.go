package layout

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/registry"
)

// ReloadDebounce is the quiet period after the last write before a layout
// file is re-read. Editors often write a file in several steps.
const ReloadDebounce = 100 * time.Millisecond

// Watch reloads page from path whenever the file changes, until ctx is
// done. The containing directory is watched so that editors replacing the
// file by rename are noticed. Files that fail to parse are logged and the
// page keeps its previous document. onReload, if set, receives every
// reload attempt's error (nil on success).
func Watch(ctx context.Context, path string, page *Page, onReload func(error)) error {
	logger := logging.NewLogger("padnav.layout")

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid layout path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.LayoutNotFound(path, err)
	}

	reload := registry.NewDebouncer(ReloadDebounce, func() {
		doc, err := Load(abs)
		if err != nil {
			logger.WithError(err).Warnf("Keeping previous layout; failed to reload %s", filepath.Base(abs))
		} else {
			logger.Infof("Layout reloaded: %s", filepath.Base(abs))
			page.Reload(doc)
		}
		if onReload != nil {
			onReload(err)
		}
	})
	defer reload.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				reload.Trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
