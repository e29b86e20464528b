// Package indexer builds the materials index from a lecture directory tree.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-materials/pkg/metrics"
	"github.com/mattsolo1/grove-materials/pkg/models"
	"github.com/mattsolo1/grove-materials/pkg/scanner"
)

// CatalogWriter receives every successfully validated document
type CatalogWriter interface {
	Replace(ctx context.Context, doc *models.IndexDocument) error
}

// Service runs index builds for one configuration
type Service struct {
	Config  *Config
	Logger  *logrus.Entry
	Metrics *metrics.Metrics
	Catalog CatalogWriter

	write DocumentWriter
}

// DocumentWriter stores an encoded document at path
type DocumentWriter func(path string, doc *models.IndexDocument) error

// Option customizes a Service
type Option func(*Service)

// WithMetrics records run statistics into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.Metrics = m }
}

// WithCatalog mirrors each written index into c
func WithCatalog(c CatalogWriter) Option {
	return func(s *Service) { s.Catalog = c }
}

// WithWriter replaces WriteDocument as the way documents reach the output path.
// The read-back check still runs against whatever w leaves on disk.
func WithWriter(w DocumentWriter) Option {
	return func(s *Service) {
		if w != nil {
			s.write = w
		}
	}
}

// Result describes a finished build or run
type Result struct {
	Document   *models.IndexDocument
	SourcePath string
	OutputPath string
	Empty      bool // source directory was missing
	Skipped    map[scanner.SkipReason]int
}

// Items returns the number of indexed items
func (r *Result) Items() int {
	if r == nil || r.Document == nil {
		return 0
	}
	return len(r.Document.Items)
}

// New creates an index service
func New(cfg *Config, logger *logrus.Entry, opts ...Option) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	s := &Service{
		Config: cfg,
		Logger: logger.WithField("component", "indexer"),
		write:  WriteDocument,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build scans the source tree and returns the sorted document without
// touching the output file. A missing source directory yields an empty
// document and Result.Empty.
func (s *Service) Build(ctx context.Context) (*Result, error) {
	source := s.Config.SourcePath()
	res := &Result{
		SourcePath: source,
		OutputPath: s.Config.OutputFile(),
		Skipped:    map[scanner.SkipReason]int{},
	}

	files, err := scanner.Scan(ctx, scanner.Options{
		Root:          source,
		Extensions:    s.Config.Extensions,
		ExcludeHidden: s.Config.ExcludeHidden,
		Exclude:       s.Config.Exclude,
		OnSkip: func(rel string, reason scanner.SkipReason) {
			res.Skipped[reason]++
			if s.Metrics != nil {
				s.Metrics.RecordSkip(string(reason))
			}
			s.Logger.WithFields(logrus.Fields{"path": rel, "reason": reason}).Debug("Skipping file")
		},
	})
	if errors.Is(err, scanner.ErrSourceMissing) {
		s.Logger.WithField("source", source).Info("Source directory not found, building empty index")
		res.Empty = true
		res.Document = models.NewIndexDocument(s.Config.now(), nil)
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}

	root := s.Config.ProjectRoot
	if root == "" {
		root = "."
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	items := make([]models.MaterialItem, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f.Path, err)
		}
		projectRel, err := filepath.Rel(root, abs)
		if err != nil {
			return nil, fmt.Errorf("relative path for %s: %w", f.Path, err)
		}
		item := NewItem(filepath.ToSlash(projectRel), f.Rel, f.Name)
		s.Logger.WithFields(logrus.Fields{"id": item.ID, "url": item.URL}).Debug("Indexed file")
		items = append(items, item)
	}
	SortItems(items)

	res.Document = models.NewIndexDocument(s.Config.now(), items)
	return res, nil
}

// Run builds the index, writes it to the output path and checks that the
// written file parses back. ErrInvalidOutput is returned when it does not.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := s.ensureOutputDir(); err != nil {
		s.record(metrics.ResultError, nil, start)
		return nil, err
	}

	res, err := s.Build(ctx)
	if err != nil {
		s.record(metrics.ResultError, nil, start)
		return nil, err
	}

	return res, s.publish(ctx, res, start)
}

// Publish writes a document produced by Build, validates it and updates the
// catalog.
func (s *Service) Publish(ctx context.Context, res *Result) error {
	start := time.Now()
	if err := s.ensureOutputDir(); err != nil {
		s.record(metrics.ResultError, res, start)
		return err
	}
	return s.publish(ctx, res, start)
}

func (s *Service) ensureOutputDir() error {
	if err := os.MkdirAll(filepath.Dir(s.Config.OutputFile()), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, res *Result, start time.Time) error {
	out := s.Config.OutputFile()

	if err := s.write(out, res.Document); err != nil {
		s.record(metrics.ResultError, res, start)
		return err
	}

	if err := ValidateFile(out, len(res.Document.Items)); err != nil {
		s.Logger.WithError(err).WithField("output", out).Error("Generated index failed validation")
		s.record(metrics.ResultInvalid, res, start)
		return err
	}

	if s.Catalog != nil {
		if err := s.Catalog.Replace(ctx, res.Document); err != nil {
			s.record(metrics.ResultError, res, start)
			return fmt.Errorf("update catalog: %w", err)
		}
	}

	result := metrics.ResultSuccess
	if res.Empty {
		result = metrics.ResultEmpty
	}
	s.record(result, res, start)

	s.Logger.WithFields(logrus.Fields{
		"output":  out,
		"items":   res.Items(),
		"elapsed": time.Since(start).String(),
	}).Info("Index written")

	return nil
}

func (s *Service) record(result string, res *Result, start time.Time) {
	if s.Metrics == nil {
		return
	}
	now := time.Now()
	s.Metrics.RecordRun(result, res.Items(), now.Sub(start), now)
}
