package token

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileToken is a TokenProvider for a token which is backed by a file.
// This will lookup the value from the file, and will watch the file for
// changes, and re-read when required.
//
// The parent directory is watched rather than the file itself so that
// tokens rotated by an atomic rename (write to a temp file, then move it
// over the old one) are picked up as well as in-place writes.
type FileToken struct {
	mutex    sync.RWMutex
	token    string
	filename string
	watcher  *fsnotify.Watcher
}

func NewFileToken(filename string) (*FileToken, error) {
	fileToken := &FileToken{filename: filepath.Clean(filename)}
	if err := fileToken.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(fileToken.filename)); err != nil {
		watcher.Close()
		return nil, err
	}
	fileToken.watcher = watcher

	go fileToken.watch()

	return fileToken, nil
}

func (t *FileToken) watch() {
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != t.filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// A failed read keeps the last good token.
				t.reload()
			}
		case _, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (t *FileToken) reload() error {
	value, err := os.ReadFile(t.filename)
	if err != nil {
		return err
	}

	t.mutex.Lock()
	t.token = strings.TrimSpace(string(value))
	t.mutex.Unlock()

	return nil
}

func (t *FileToken) Token() string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.token
}

// Close stops watching the token file. The last read token is still
// returned by Token.
func (t *FileToken) Close() error {
	return t.watcher.Close()
}
