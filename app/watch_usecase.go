package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/log"
)

// DefaultWatchDebounce is how long a file must stay quiet before it is re-analyzed
const DefaultWatchDebounce = 200 * time.Millisecond

// WatchConfig configures a watch session
type WatchConfig struct {
	Collect  CollectOptions
	Output   io.Writer
	Debounce time.Duration
}

// watchRoot is a watched directory with its gitignore rules
type watchRoot struct {
	dir       string
	gitignore *ignore.GitIgnore
}

// WatchUseCase re-analyzes files as they change and prints one line per report
type WatchUseCase struct {
	batch      BatchRunner
	fileHelper *FileHelper

	// digests holds the last printed digest per path; only the event loop touches it
	digests map[string]string
}

// NewWatchUseCase creates a watch use case over a batch runner
func NewWatchUseCase(batch BatchRunner) *WatchUseCase {
	return &WatchUseCase{
		batch:      batch,
		fileHelper: NewFileHelper(),
		digests:    make(map[string]string),
	}
}

// Run analyzes every collected file once, then watches the paths and re-analyzes
// changed files until ctx is cancelled. Unchanged content is not reported twice.
func (uc *WatchUseCase) Run(ctx context.Context, cfg WatchConfig, paths []string) error {
	if len(paths) == 0 {
		return domain.NewInvalidInputError("no paths specified", nil)
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultWatchDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return domain.NewAnalysisError("failed to start file watcher", err)
	}
	defer fsw.Close()

	var roots []watchRoot
	explicit := make(map[string]bool)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return domain.NewFileNotFoundError(path, err)
		}
		if !info.IsDir() {
			explicit[filepath.Clean(path)] = true
			if err := fsw.Add(filepath.Dir(path)); err != nil {
				return domain.NewAnalysisError("failed to watch "+path, err)
			}
			continue
		}

		root := watchRoot{dir: filepath.Clean(path)}
		if cfg.Collect.RespectGitignore {
			root.gitignore = loadGitignore(path)
		}
		if err := addWatchDirs(fsw, root, cfg.Collect); err != nil {
			return domain.NewAnalysisError("failed to watch "+path, err)
		}
		roots = append(roots, root)
	}

	files, err := uc.fileHelper.CollectFiles(paths, cfg.Collect)
	if err != nil {
		return domain.NewFileNotFoundError(strings.Join(paths, ", "), err)
	}
	uc.analyze(ctx, cfg.Output, files)
	log.Info("watching for changes", "paths", len(paths), "files", len(files))

	deb := newDebouncer(cfg.Debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if _, seen := uc.digests[name]; seen {
					delete(uc.digests, name)
					log.Info("file removed", "path", name)
				}
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if info, err := os.Stat(name); err == nil && info.IsDir() {
				if root, ok := rootFor(roots, name); ok && cfg.Collect.Recursive {
					sub := watchRoot{dir: name, gitignore: root.gitignore}
					if err := addWatchDirs(fsw, sub, cfg.Collect); err != nil {
						log.Warn("failed to watch new directory", "path", name, "error", err)
					}
				}
				continue
			}
			if !explicit[name] && !watched(roots, name, cfg.Collect) {
				continue
			}

			deb.touch(name)

		case name := <-deb.due:
			deb.fired(name)
			uc.analyze(ctx, cfg.Output, []string{name})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)
		}
	}
}

// debouncer delivers a path on due once no event touched it for wait
type debouncer struct {
	wait   time.Duration
	due    chan string
	done   chan struct{}
	timers map[string]*time.Timer
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{
		wait:   wait,
		due:    make(chan string, 64),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
	}
}

// touch restarts the quiet period of name. Only the event loop calls it.
func (d *debouncer) touch(name string) {
	if t, exists := d.timers[name]; exists {
		t.Stop()
	}
	d.timers[name] = time.AfterFunc(d.wait, func() {
		select {
		case d.due <- name:
		case <-d.done:
		}
	})
}

// fired forgets the timer of a delivered name
func (d *debouncer) fired(name string) {
	delete(d.timers, name)
}

// stop cancels pending timers and releases callbacks blocked on a full due
func (d *debouncer) stop() {
	for _, t := range d.timers {
		t.Stop()
	}
	close(d.done)
}

// analyze runs the batch runner over files and prints the reports whose content changed
func (uc *WatchUseCase) analyze(ctx context.Context, w io.Writer, files []string) {
	if len(files) == 0 {
		return
	}

	response, err := uc.batch.AnalyzeFiles(ctx, files)
	if response == nil {
		log.Warn("watch analysis failed", "error", err)
		return
	}

	for _, report := range response.Reports {
		if uc.digests[report.Name] == report.Digest {
			log.Debug("content unchanged", "path", report.Name)
			continue
		}
		uc.digests[report.Name] = report.Digest
		fmt.Fprintln(w, FormatWatchLine(report))
	}
	for _, msg := range response.Errors {
		fmt.Fprintf(w, "error: %s\n", msg)
	}
}

// FormatWatchLine renders a report as the single line printed in watch mode
func FormatWatchLine(report *domain.AnalysisReport) string {
	line := fmt.Sprintf("%s  %d/100 (%s)  findings %d  lint %d",
		report.Name, report.QualityScore, report.Grade, len(report.PatternFindings()), len(report.Lint))
	if report.Partial {
		line += "  partial"
	}
	return line
}

// addWatchDirs adds root and, when recursive, every directory below it that the walk would visit
func addWatchDirs(fsw *fsnotify.Watcher, root watchRoot, opts CollectOptions) error {
	if !opts.Recursive {
		return fsw.Add(root.dir)
	}
	return filepath.WalkDir(root.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !d.IsDir() {
			return nil
		}
		if path != root.dir {
			rel, err := filepath.Rel(root.dir, path)
			if err != nil {
				return err
			}
			if skipDir(filepath.ToSlash(rel), opts, root.gitignore) {
				return filepath.SkipDir
			}
		}
		return fsw.Add(path)
	})
}

// rootFor returns the watched directory that contains path
func rootFor(roots []watchRoot, path string) (watchRoot, bool) {
	for _, root := range roots {
		rel, err := filepath.Rel(root.dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return root, true
		}
	}
	return watchRoot{}, false
}

// watched reports whether a changed file under a watched directory is analyzed
func watched(roots []watchRoot, path string, opts CollectOptions) bool {
	root, ok := rootFor(roots, path)
	if !ok {
		return false
	}
	rel, err := filepath.Rel(root.dir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if !opts.Recursive && strings.Contains(rel, "/") {
		return false
	}
	return selectFile(rel, opts, root.gitignore)
}
