package indexer

import (
	"path/filepath"
	"time"
)

// Defaults mirror the layout of the lecture site: materials live in wyklady/
// and the front-end reads data/materials.json.
const (
	DefaultSourceDir  = "wyklady"
	DefaultOutputPath = "data/materials.json"
)

// Config holds everything an index run depends on. Relative SourceDir and
// OutputPath are resolved against ProjectRoot.
type Config struct {
	ProjectRoot   string
	SourceDir     string
	OutputPath    string
	Extensions    []string
	ExcludeHidden bool
	Exclude       []string

	// Now stamps meta.generated_at; defaults to time.Now
	Now func() time.Time
}

// DefaultConfig returns the configuration matching the site layout rooted at root
func DefaultConfig(root string) *Config {
	return &Config{
		ProjectRoot:   root,
		SourceDir:     DefaultSourceDir,
		OutputPath:    DefaultOutputPath,
		ExcludeHidden: true,
	}
}

// SourcePath returns the resolved source directory
func (c *Config) SourcePath() string {
	return c.resolve(c.SourceDir)
}

// OutputFile returns the resolved output path
func (c *Config) OutputFile() string {
	return c.resolve(c.OutputPath)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	root := c.ProjectRoot
	if root == "" {
		root = "."
	}
	return filepath.Join(root, p)
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
