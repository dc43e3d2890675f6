package commands

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// watchDebounce coalesces bursts of file events into one lint run.
const watchDebounce = 200 * time.Millisecond

// watchAndLint lints once and then again after every relevant change, until
// the context is cancelled or the process is interrupted.
func watchAndLint(ctx context.Context, cmdCtx *CommandContext, l *linter, paths []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	roots := paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if err := watchDirRecursive(watcher, root); err != nil {
			cmdCtx.Logger.Error("failed to watch path", "path", root, "error", err)
		}
	}

	lintOnce := func() {
		report, err := l.run(ctx, paths)
		if err != nil {
			cmdCtx.Logger.Error("lint failed", "error", err)
			return
		}
		renderLintReport(cmdCtx.Renderer, report)
	}
	lintOnce()

	// Debounce
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDirs[info.Name()] {
					_ = watchDirRecursive(watcher, event.Name)
					continue
				}
			}
			if !terraform.MatchesFilePattern(event.Name) {
				continue
			}
			cmdCtx.Logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			lintOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
// A file path watches its parent directory.
func watchDirRecursive(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
