package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func rels(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}
	return out
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), Options{Root: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, ErrSourceMissing)
}

func TestScanFiltersExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"a.pdf", "b.PDF", "c.txt", "d.mp4", "e.zip", "noext",
		"Semestr_1/f.docx", "Semestr_1/Wyklad_2/g.jpeg",
	)

	files, err := Scan(context.Background(), Options{Root: root, ExcludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Semestr_1/Wyklad_2/g.jpeg",
		"Semestr_1/f.docx",
		"a.pdf",
		"b.PDF",
		"d.mp4",
		"e.zip",
	}, rels(files))
}

func TestScanCustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.pdf", "b.mp4", "c.md")

	files, err := Scan(context.Background(), Options{Root: root, Extensions: []string{"PDF", ".md", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "c.md"}, rels(files))
}

func TestScanHiddenFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, ".secret.pdf", "visible.pdf", ".hidden_dir/inside.pdf")

	var skipped []string
	files, err := Scan(context.Background(), Options{
		Root:          root,
		ExcludeHidden: true,
		OnSkip: func(rel string, reason SkipReason) {
			skipped = append(skipped, rel+":"+string(reason))
		},
	})
	require.NoError(t, err)
	// Only the file name is checked; hidden directories are still walked.
	assert.Equal(t, []string{".hidden_dir/inside.pdf", "visible.pdf"}, rels(files))
	assert.Equal(t, []string{".secret.pdf:hidden"}, skipped)

	files, err = Scan(context.Background(), Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden_dir/inside.pdf", ".secret.pdf", "visible.pdf"}, rels(files))
}

func TestScanExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "keep/a.pdf", "drafts/b.pdf", "x/old/c.pdf", "d_draft.pdf")

	var skipped []string
	files, err := Scan(context.Background(), Options{
		Root:    root,
		Exclude: []string{"drafts", "**/old/**", "*_draft.*"},
		OnSkip: func(rel string, reason SkipReason) {
			skipped = append(skipped, rel+":"+string(reason))
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep/a.pdf"}, rels(files))
	assert.Contains(t, skipped, "d_draft.pdf:excluded")
}

func TestScanInvalidPattern(t *testing.T) {
	root := t.TempDir()
	_, err := Scan(context.Background(), Options{Root: root, Exclude: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "file.pdf")

	files, err := Scan(context.Background(), Options{Root: filepath.Join(root, "file.pdf")})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, outside, "linked.pdf", "dir/inner.pdf")
	writeFiles(t, root, "real.pdf")
	require.NoError(t, os.Symlink(filepath.Join(outside, "linked.pdf"), filepath.Join(root, "alias.pdf")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "dirlink")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone.pdf"), filepath.Join(root, "broken.pdf")))
	require.NoError(t, os.Symlink(filepath.Join(root, "loop.pdf"), filepath.Join(root, "loop.pdf")))

	skipped := map[string]SkipReason{}
	files, err := Scan(context.Background(), Options{
		Root:   root,
		OnSkip: func(rel string, reason SkipReason) { skipped[rel] = reason },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alias.pdf", "real.pdf"}, rels(files))
	assert.Equal(t, map[string]SkipReason{"broken.pdf": SkipBroken, "loop.pdf": SkipBroken}, skipped)
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, Options{Root: root})
	assert.ErrorIs(t, err, context.Canceled)
}
