package walker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelens/internal/walker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collect(t *testing.T, root string, exts map[string]bool) []walker.FileInfo {
	t.Helper()
	filesCh, errCh := walker.Walk(root, exts)
	var got []walker.FileInfo
	for f := range filesCh {
		got = append(got, f)
	}
	for err := range errCh {
		require.NoError(t, err)
	}
	return got
}

func TestWalkFindsAllowedExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "README.md"), "# hi\n")

	got := collect(t, root, map[string]bool{"go": true})
	require.Len(t, got, 1)
	assert.Equal(t, "main.go", got[0].RelPath)
}

func TestWalkHonorsRootGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "generated/\n*.pb.go\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "generated", "api.go"), "package generated\n")
	writeFile(t, filepath.Join(root, "types.pb.go"), "package main\n")

	got := collect(t, root, map[string]bool{"go": true})
	require.Len(t, got, 1)
	assert.Equal(t, "main.go", got[0].RelPath)
}

func TestWalkHonorsNestedGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", ".gitignore"), "fixtures/\n")
	writeFile(t, filepath.Join(root, "pkg", "real.go"), "package pkg\n")
	writeFile(t, filepath.Join(root, "pkg", "fixtures", "sample.go"), "package fixtures\n")

	got := collect(t, root, map[string]bool{"go": true})
	require.Len(t, got, 1)
	assert.Equal(t, "pkg/real.go", got[0].RelPath)
}

func TestWalkSkipsDefaultIgnoreDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "lib", "index.js"), "module.exports = {};\n")
	writeFile(t, filepath.Join(root, "app.js"), "console.log(1);\n")

	got := collect(t, root, map[string]bool{"js": true})
	require.Len(t, got, 1)
	assert.Equal(t, "app.js", got[0].RelPath)
}

func TestWalkSkipsEmptyAndOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.go"), "")
	writeFile(t, filepath.Join(root, "huge.go"), string(make([]byte, (1<<20)+1)))
	writeFile(t, filepath.Join(root, "normal.go"), "package main\n")

	got := collect(t, root, map[string]bool{"go": true})
	require.Len(t, got, 1)
	assert.Equal(t, "normal.go", got[0].RelPath)
}
