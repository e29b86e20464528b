// Package scanner enumerates candidate material files under a source tree.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mattsolo1/grove-materials/pkg/metadata"
)

// ErrSourceMissing is returned when the source directory does not exist
var ErrSourceMissing = errors.New("source directory does not exist")

// SkipReason explains why a file was left out of the scan
type SkipReason string

const (
	SkipExtension SkipReason = "extension"
	SkipHidden    SkipReason = "hidden"
	SkipExcluded  SkipReason = "excluded"
	SkipBroken    SkipReason = "broken_link"
)

// DefaultExtensions is the allow-list used when none is configured
var DefaultExtensions = []string{
	".pdf", ".pptx", ".ppt", ".docx", ".doc", ".xlsx", ".xls",
	".png", ".jpg", ".jpeg", ".mp4", ".zip",
}

// File is a file accepted by the scanner
type File struct {
	Path string // filesystem path as walked
	Rel  string // slash-separated path relative to the source root
	Name string
}

// Options controls what Scan accepts
type Options struct {
	Root          string
	Extensions    []string
	ExcludeHidden bool
	Exclude       []string

	// OnSkip, when set, is called for every regular file that is filtered out
	OnSkip func(rel string, reason SkipReason)
}

// Scan walks opts.Root recursively and returns accepted files in lexical order.
// Symlinks to regular files are accepted; symlinked directories are not
// descended. Dangling or looping links are skipped.
func Scan(ctx context.Context, opts Options) ([]File, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSourceMissing
		}
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return []File{}, nil
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	allowed := make(map[string]bool, len(opts.Extensions))
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, ext := range exts {
		if ext = metadata.NormalizeExt(ext); ext != "" {
			allowed[ext] = true
		}
	}

	files := []File{}
	err = filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == opts.Root {
			return nil
		}

		rel, err := filepath.Rel(opts.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excluded(opts.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if isDanglingLink(err) {
				if opts.OnSkip != nil {
					opts.OnSkip(rel, SkipBroken)
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve symlink %s: %w", path, err)
			}
			if !target.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		reason, ok := accept(opts, allowed, name, rel)
		if !ok {
			if opts.OnSkip != nil {
				opts.OnSkip(rel, reason)
			}
			return nil
		}

		files = append(files, File{Path: path, Rel: rel, Name: name})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", opts.Root, err)
	}

	return files, nil
}

// isDanglingLink reports whether err means a symlink does not lead to a file
func isDanglingLink(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.ELOOP)
}

func accept(opts Options, allowed map[string]bool, name, rel string) (SkipReason, bool) {
	if !allowed[strings.ToLower(metadata.FileExt(name))] {
		return SkipExtension, false
	}
	if opts.ExcludeHidden && strings.HasPrefix(name, ".") {
		return SkipHidden, false
	}
	if excluded(opts.Exclude, rel) {
		return SkipExcluded, false
	}
	return "", true
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}
