package detect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/putflow/files"
	"go.jacobcolvin.com/putflow/syntax"
	"go.jacobcolvin.com/putflow/workflow"
)

// Sentinel errors returned by the detector.
var (
	ErrDetect        = errors.New("detect")
	ErrInvalidOption = errors.New("invalid option")
	ErrProcessFile   = errors.New("process file")
)

// PropertyDependencies is the extra record property listing detected
// dependency files.
const PropertyDependencies = "dependencies"

// Detector infers workflow records from source code without annotations.
//
// Create instances with [NewDetector].
type Detector struct {
	logger      *slog.Logger
	catalog     *Catalog
	pattern     *regexp.Regexp
	categories  []Category
	concurrency int
	recursive   bool
	lineNumbers bool
}

// Option configures a [Detector].
type Option func(*Detector)

// NewDetector creates a [Detector] with the given options. By default it
// uses [DefaultCatalog], matches every extension in the syntax table, does
// not recurse, and detects every [Category].
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		logger:      slog.Default(),
		catalog:     DefaultCatalog(),
		categories:  Categories(),
		concurrency: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.pattern == nil {
		d.pattern = regexp.MustCompile(files.DefaultPattern())
	}

	return d
}

// WithLogger sets the logger that receives warnings and progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithCatalog sets the pattern catalogue.
func WithCatalog(c *Catalog) Option {
	return func(d *Detector) {
		d.catalog = c
	}
}

// WithPattern sets the regular expression matched against file base names.
func WithPattern(pattern *regexp.Regexp) Option {
	return func(d *Detector) {
		d.pattern = pattern
	}
}

// WithRecursive enables walking into subdirectories.
func WithRecursive(recursive bool) Option {
	return func(d *Detector) {
		d.recursive = recursive
	}
}

// WithLineNumbers records the line of the first finding in each file.
func WithLineNumbers(lineNumbers bool) Option {
	return func(d *Detector) {
		d.lineNumbers = lineNumbers
	}
}

// WithCategories restricts detection to the given categories.
func WithCategories(cats ...Category) Option {
	return func(d *Detector) {
		d.categories = cats
	}
}

// WithConcurrency bounds how many files are processed at once. Values below
// one are treated as one.
func WithConcurrency(n int) Option {
	return func(d *Detector) {
		d.concurrency = max(n, 1)
	}
}

type fileResult struct {
	record *workflow.Record
	diag   workflow.Diagnostics
}

// Detect reads every matching file under root and returns one auto-detected
// record per file whose language has detection patterns, ordered by path.
//
// A root that does not exist is an error. Unreadable files are reported in
// the result's diagnostics and otherwise skipped.
func (d *Detector) Detect(ctx context.Context, root string) (*workflow.Result, error) {
	paths, err := files.Find(root, d.pattern, d.recursive)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetect, err)
	}

	res := &workflow.Result{}

	if len(paths) == 0 {
		res.Warn(workflow.Warning{File: root, Message: "no files matched the file pattern"})
		res.Table = workflow.NewTable()
		res.Log(d.logger)

		return res, nil
	}

	outs := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outs[i] = d.detectFile(path)

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetect, err)
	}

	var records []*workflow.Record

	for _, out := range outs {
		if out.record != nil {
			records = append(records, out.record)
		}

		res.Append(out.diag)
	}

	res.Table = workflow.NewTable(records...)

	if len(records) == 0 {
		res.Warn(workflow.Warning{File: root, Message: "no files in a language with detection patterns"})
	}

	res.Log(d.logger)

	return res, nil
}

func (d *Detector) detectFile(path string) (out fileResult) {
	defer func() {
		if r := recover(); r != nil {
			out = fileResult{}
			out.diag.Fail(path, fmt.Errorf("%w: %v", ErrProcessFile, r))
		}
	}()

	lang, ok := syntax.Resolve(files.Ext(path))
	if !ok || !d.catalog.Has(lang.Name) {
		d.logger.Debug("no detection patterns for file",
			slog.String("file", path),
			slog.String("language", lang.Name),
		)

		return out
	}

	lines, err := files.ReadLines(path)
	if err != nil {
		out.diag.Fail(path, err)

		return out
	}

	out.record = d.DetectLines(path, lang.Name, lines)

	return out
}

// DetectLines builds the auto-detected record for the file at path from its
// lines, using the patterns of language. The file is not read.
func (d *Detector) DetectLines(path, language string, lines []string) *workflow.Record {
	findings := d.catalog.Match(language, lines, d.categories...)

	var inputs, outputs, deps []string

	first := 0

	for _, f := range findings {
		switch f.Category {
		case CategoryInput:
			inputs = append(inputs, f.File)
		case CategoryOutput:
			outputs = append(outputs, f.File)
		case CategoryDependency:
			deps = append(deps, f.File)
		}

		if first == 0 || f.Line < first {
			first = f.Line
		}
	}

	base := filepath.Base(path)

	r := &workflow.Record{
		ID:           strings.TrimSuffix(base, filepath.Ext(base)),
		Label:        base,
		FileName:     base,
		FilePath:     path,
		FileType:     files.Ext(path),
		Inputs:       workflow.UnionFiles(inputs, deps),
		Outputs:      workflow.UnionFiles(outputs),
		AutoDetected: true,
	}

	r.Kind = workflow.InferKind(len(r.Inputs) > 0, len(r.Outputs) > 0)

	if deps = workflow.UnionFiles(deps); len(deps) > 0 {
		r.Properties = map[string]string{PropertyDependencies: workflow.JoinFiles(deps)}
	}

	if d.lineNumbers {
		r.LineNumber = first
	}

	d.logger.Debug("detected file references",
		slog.String("file", path),
		slog.Int("inputs", len(r.Inputs)),
		slog.Int("outputs", len(r.Outputs)),
		slog.Int("dependencies", len(deps)),
	)

	return r
}
