package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"livedesk/internal/logger"
)

// Watch re-reads the config file on change and applies the log level. Only
// the log level is hot-reloadable; the staleness TTLs are deliberately read
// once at startup. Returns a stop function.
func Watch(path string) (func(), error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return func() {}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files via rename, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		var last time.Time
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				// Editors fire bursts of events per save.
				if time.Since(last) < 200*time.Millisecond {
					continue
				}
				last = time.Now()
				cfg, err := Load(abs)
				if err != nil {
					logger.Warnf("config reload failed: %v", err)
					continue
				}
				logger.SetLevel(cfg.App.LogLevel)
				logger.Infof("config reloaded, log level now %s", cfg.App.LogLevel)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("config watcher error: %v", err)
			}
		}
	}()
	return func() {
		close(done)
		watcher.Close()
	}, nil
}
