// Package inbox imports training files dropped into a watched directory.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"gymnotes/training-tracker/internal/service"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Subdirectories files are moved to once handled.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

const defaultDebounce = 2 * time.Second

var supportedExt = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
	".json": true,
	".txt":  true,
}

// Watcher imports every supported file that appears in dir. Files are
// imported once they have been quiet for the debounce period, then moved to
// processed/ or, when they could not be read at all, to failed/.
type Watcher struct {
	dir      string
	imports  service.ImportService
	debounce time.Duration
}

// NewWatcher creates a Watcher for dir.
func NewWatcher(dir string, imports service.ImportService, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{dir: dir, imports: imports, debounce: debounce}
}

// Run watches until ctx is cancelled. Files already waiting in the directory
// are imported too.
func (w *Watcher) Run(ctx context.Context) error {
	for _, sub := range []string{ProcessedDir, FailedDir} {
		if err := os.MkdirAll(filepath.Join(w.dir, sub), 0o755); err != nil {
			return fmt.Errorf("create inbox directories: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	log.Printf("INFO: Watching %s for training files", w.dir)

	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	schedule := func(path string) {
		if t, ok := timers[path]; ok {
			t.Reset(w.debounce)
			return
		}
		timers[path] = time.AfterFunc(w.debounce, func() {
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && accepts(e.Name()) {
			schedule(filepath.Join(w.dir, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if (event.Has(fsnotify.Create) || event.Has(fsnotify.Write)) && accepts(filepath.Base(event.Name)) {
				schedule(event.Name)
			}
		case path := <-ready:
			delete(timers, path)
			w.process(ctx, path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("WARN: Inbox watcher error: %v", err)
		}
	}
}

// accepts skips hidden files and office lock files such as "~$plan.xlsx".
func accepts(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	return supportedExt[strings.ToLower(filepath.Ext(name))]
}

func (w *Watcher) process(ctx context.Context, path string) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return // already handled
	}
	if err != nil {
		log.Printf("ERROR: Opening inbox file %s: %v", path, err)
		return
	}

	name := filepath.Base(path)
	report, err := w.imports.ImportFile(ctx, name, f)
	f.Close()

	dest := ProcessedDir
	if err != nil {
		var fileErr *service.ImportFileError
		if !errors.As(err, &fileErr) {
			// Not the file's fault; leave it for the next run.
			log.Printf("ERROR: Importing inbox file %s: %v", name, err)
			return
		}
		dest = FailedDir
	} else {
		for _, r := range report.Results {
			if r.Status == service.ImportFailed {
				log.Printf("WARN: %s: training %d (%q) not imported: %s", name, r.Index, r.Name, r.Error)
			}
		}
	}

	target := filepath.Join(w.dir, dest, name)
	if _, err := os.Stat(target); err == nil {
		target = filepath.Join(w.dir, dest, time.Now().Format("20060102-150405-")+name)
	}
	if err := os.Rename(path, target); err != nil {
		log.Printf("ERROR: Moving %s to %s: %v", path, target, err)
	}
}
