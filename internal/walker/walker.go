// Package walker discovers source files under a codebase root, honoring
// real .gitignore semantics (root and nested files, negation, directory
// anchoring) rather than a bespoke ignore-file format.
package walker

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileInfo holds metadata about a discovered source file.
type FileInfo struct {
	Path    string
	RelPath string
	Size    int64
	ModTime int64 // unix nanoseconds, used for cache invalidation
}

// maxFileSize is the largest file considered for parsing (1 MB); larger
// files are almost never hand-written source and are skipped rather than
// fed whole to tree-sitter.
const maxFileSize = 1 << 20

// defaultIgnoreDirs apply even in codebases with no .gitignore at all, and
// are layered in alongside whatever .gitignore rules exist.
var defaultIgnoreDirs = []string{
	".git", ".svn", ".hg",
	"node_modules", "vendor", "__pycache__",
	".idea", ".vscode", ".codelens",
	"dist", "build", "target",
}

// Walk traverses the directory tree rooted at root and sends discovered
// source files on the returned channel. Only files whose extension is in
// allowedExts are emitted; directories and files matched by .gitignore
// rules (root-level and nested, collected as the walk descends) are
// pruned entirely rather than merely skipped, so a large ignored tree
// (node_modules) never gets statted.
func Walk(root string, allowedExts map[string]bool) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 64)
	errCh := make(chan error, 1)

	log := slog.Default().With("component", "walker")

	go func() {
		defer close(files)
		defer close(errCh)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errCh <- err
			return
		}

		fsys := osfs.New(absRoot)

		var patterns []gitignore.Pattern
		if rootPatterns, err := gitignore.ReadPatterns(fsys, nil); err == nil {
			patterns = append(patterns, rootPatterns...)
		}
		for _, name := range defaultIgnoreDirs {
			patterns = append(patterns, gitignore.ParsePattern(name, nil))
		}
		matcher := gitignore.NewMatcher(patterns)

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil // skip unreadable entries, keep walking
			}
			if path == absRoot {
				return nil
			}

			rel, _ := filepath.Rel(absRoot, path)
			parts := strings.Split(filepath.ToSlash(rel), "/")

			if strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if matcher.Match(parts, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				// Layer in this directory's own .gitignore, scoped to its
				// subtree via the pattern's domain, before descending.
				if nested, err := gitignore.ReadPatterns(fsys, parts); err == nil && len(nested) > 0 {
					patterns = append(patterns, nested...)
					matcher = gitignore.NewMatcher(patterns)
				}
				return nil
			}

			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}

			ext := strings.TrimPrefix(filepath.Ext(path), ".")
			if !allowedExts[ext] {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() == 0 {
				return nil
			}
			if info.Size() > maxFileSize {
				log.Warn("skipping oversized file", "path", rel, "size", info.Size())
				return nil
			}

			files <- FileInfo{
				Path:    path,
				RelPath: filepath.ToSlash(rel),
				Size:    info.Size(),
				ModTime: info.ModTime().UnixNano(),
			}
			return nil
		})
		if err != nil {
			errCh <- err
		}
	}()

	return files, errCh
}
