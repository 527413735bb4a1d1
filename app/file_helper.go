package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/smellscan/internal/log"
)

// StdinPath is the argument that selects standard input
const StdinPath = "-"

// CollectOptions selects which files a directory walk yields
type CollectOptions struct {
	Recursive        bool
	IncludePatterns  []string
	ExcludePatterns  []string
	RespectGitignore bool
}

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectFiles expands paths into the files to analyze. Files named explicitly
// are kept unless excluded; directories are filtered by the include patterns.
// The result has no duplicates and keeps discovery order.
func (h *FileHelper) CollectFiles(paths []string, opts CollectOptions) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if !matchesAny(opts.ExcludePatterns, filepath.ToSlash(path)) {
				add(path)
			}
			continue
		}

		found, err := h.walkDir(path, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

// walkDir collects matching files under root
func (h *FileHelper) walkDir(root string, opts CollectOptions) ([]string, error) {
	var gitignore *ignore.GitIgnore
	if opts.RespectGitignore {
		gitignore = loadGitignore(root)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !opts.Recursive || skipDir(rel, opts, gitignore) {
				return filepath.SkipDir
			}
			return nil
		}

		if selectFile(rel, opts, gitignore) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// skipDir reports whether the walk should not descend into the relative directory
func skipDir(rel string, opts CollectOptions, gitignore *ignore.GitIgnore) bool {
	if matchesAny(opts.ExcludePatterns, rel) || matchesAny(opts.ExcludePatterns, rel+"/") {
		return true
	}
	return gitignore != nil && gitignore.MatchesPath(rel+"/")
}

// selectFile reports whether a file found under a walk root is analyzed
func selectFile(rel string, opts CollectOptions, gitignore *ignore.GitIgnore) bool {
	if gitignore != nil && gitignore.MatchesPath(rel) {
		return false
	}
	if matchesAny(opts.ExcludePatterns, rel) {
		return false
	}
	return len(opts.IncludePatterns) == 0 || matchesAny(opts.IncludePatterns, rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		log.Warn("ignoring unreadable .gitignore", "path", path, "error", err)
		return nil
	}
	return gi
}

// matchesAny reports whether the slash-separated path matches one of the patterns.
// Patterns without a slash are also tried against the base name.
func matchesAny(patterns []string, path string) bool {
	path = strings.TrimPrefix(path, "/")
	base := path
	if i := strings.LastIndex(strings.TrimSuffix(path, "/"), "/"); i >= 0 {
		base = path[i+1:]
	}
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, strings.TrimSuffix(base, "/")); ok {
				return true
			}
		}
	}
	return false
}
