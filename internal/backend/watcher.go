package backend

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// CatalogWatcher watches a backend catalog file and invokes a reload
// callback when it changes, so new backends can be appended to the
// registry without a restart.
type CatalogWatcher struct {
	path    string
	reload  func(path string)
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchCatalog starts watching the catalog file at path. The reload
// callback runs on every write or create event for the file.
func WatchCatalog(path string, reload func(path string)) (*CatalogWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace files on save, which drops the
	// watch when the file itself is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	cw := &CatalogWatcher{
		path:    path,
		reload:  reload,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go cw.run()

	return cw, nil
}

// run forwards catalog change events to the reload callback.
func (cw *CatalogWatcher) run() {
	for {
		select {
		case <-cw.done:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(cw.path) {
				continue
			}
			if event.Op&fsnotify.Write != 0 || event.Op&fsnotify.Create != 0 {
				log.Printf("[registry] catalog %s changed, reloading", cw.path)
				cw.reload(cw.path)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[registry] catalog watch error: %v", err)
		}
	}
}

// Close stops the watcher.
func (cw *CatalogWatcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}
