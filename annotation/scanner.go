package annotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/putflow/files"
	"go.jacobcolvin.com/putflow/syntax"
	"go.jacobcolvin.com/putflow/workflow"
)

// Sentinel errors returned by the scanner.
var (
	ErrScan          = errors.New("scan")
	ErrInvalidOption = errors.New("invalid option")
	ErrProcessFile   = errors.New("process file")
)

// Scanner extracts annotation records from source files.
//
// Create instances with [NewScanner].
type Scanner struct {
	logger      *slog.Logger
	pattern     *regexp.Regexp
	newID       func() string
	concurrency int
	recursive   bool
	lineNumbers bool
	validate    bool
}

// Option configures a [Scanner].
type Option func(*Scanner)

// NewScanner creates a [Scanner] with the given options. By default it
// matches every extension in the syntax table, does not recurse, and
// validates content.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		logger:      slog.Default(),
		newID:       uuid.NewString,
		concurrency: runtime.GOMAXPROCS(0),
		validate:    true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.pattern == nil {
		s.pattern = regexp.MustCompile(files.DefaultPattern())
	}

	return s
}

// WithLogger sets the logger that receives warnings and progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithPattern sets the regular expression matched against file base names.
func WithPattern(pattern *regexp.Regexp) Option {
	return func(s *Scanner) {
		s.pattern = pattern
	}
}

// WithRecursive enables walking into subdirectories.
func WithRecursive(recursive bool) Option {
	return func(s *Scanner) {
		s.recursive = recursive
	}
}

// WithLineNumbers records the line of each annotation.
func WithLineNumbers(lineNumbers bool) Option {
	return func(s *Scanner) {
		s.lineNumbers = lineNumbers
	}
}

// WithValidation enables content warnings.
func WithValidation(validate bool) Option {
	return func(s *Scanner) {
		s.validate = validate
	}
}

// WithConcurrency bounds how many files are processed at once. Values below
// one are treated as one.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		s.concurrency = max(n, 1)
	}
}

// WithIDGenerator replaces the function that supplies ids for annotations
// without an id key.
func WithIDGenerator(fn func() string) Option {
	return func(s *Scanner) {
		s.newID = fn
	}
}

type fileResult struct {
	records []*workflow.Record
	diag    workflow.Diagnostics
}

// Scan reads every matching file under root and returns the annotation
// records found, ordered by file path and then line.
//
// A root that does not exist is an error. Unreadable files are reported in
// [workflow.Diagnostics.FileErrors] and otherwise skipped. Finding no files or no
// annotations produces a warning and an empty table.
func (s *Scanner) Scan(ctx context.Context, root string) (*workflow.Result, error) {
	paths, err := files.Find(root, s.pattern, s.recursive)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}

	res := &workflow.Result{}

	if len(paths) == 0 {
		res.Warn(workflow.Warning{File: root, Message: "no files matched the file pattern"})
		res.Table = workflow.NewTable()
		res.Log(s.logger)

		return res, nil
	}

	s.logger.Debug("scanning files",
		slog.String("root", root),
		slog.Int("count", len(paths)),
	)

	outs := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outs[i] = s.scanFile(path)

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}

	var records []*workflow.Record

	for _, out := range outs {
		records = append(records, out.records...)
		res.Append(out.diag)
	}

	res.Table = workflow.NewTable(records...)

	if len(records) == 0 {
		res.Warn(workflow.Warning{File: root, Message: "no annotations found"})
	}

	if s.validate {
		res.Warnings = append(res.Warnings, duplicateWarnings(res.Table)...)
	}

	res.Log(s.logger)

	return res, nil
}

// scanFile processes one file. A panic while processing is reported as a
// per-file error so that one file cannot abort the scan.
func (s *Scanner) scanFile(path string) (out fileResult) {
	defer func() {
		if r := recover(); r != nil {
			out = fileResult{}
			out.diag.Fail(path, fmt.Errorf("%w: %v", ErrProcessFile, r))
		}
	}()

	lines, err := files.ReadLines(path)
	if err != nil {
		out.diag.Fail(path, err)

		return out
	}

	out.records, out.diag = s.ScanLines(path, lines)

	s.logger.Debug("scanned file",
		slog.String("file", path),
		slog.Int("annotations", len(out.records)),
	)

	return out
}

// ScanLines extracts annotation records from the lines of the file at path.
// The file is not read; path supplies the comment syntax and metadata.
func (s *Scanner) ScanLines(path string, lines []string) ([]*workflow.Record, workflow.Diagnostics) {
	var (
		records []*workflow.Record
		diag    workflow.Diagnostics
	)

	ext := files.Ext(path)
	prefix := syntax.Prefix(ext)
	base := filepath.Base(path)

	for i := 0; i < len(lines); i++ {
		if !IsAnnotation(lines[i], prefix) {
			continue
		}

		start := i

		full, last := Collect(lines, i, prefix)
		i = last

		payload, _ := Payload(full, prefix)

		fields, err := ParseProperties(payload)
		if err != nil {
			if s.validate {
				diag.Warn(workflow.Warning{
					File:    path,
					Line:    start + 1,
					Message: fmt.Sprintf("invalid annotation syntax: %s", strings.TrimSpace(full)),
				})
			}

			continue
		}

		r := workflow.RecordFromFields(fields)

		if !hasKey(fields, workflow.KeyID) {
			r.ID = s.newID()
		}

		r.FileName = base
		r.FilePath = path
		r.FileType = ext

		if len(r.Outputs) == 0 {
			r.Outputs = []string{base}
		}

		if s.lineNumbers {
			r.LineNumber = start + 1
		}

		if s.validate {
			for _, msg := range Validate(r) {
				diag.Warn(workflow.Warning{File: path, Line: start + 1, ID: r.ID, Message: msg})
			}
		}

		records = append(records, r)
	}

	return records, diag
}

func hasKey(fields []workflow.Field, key string) bool {
	return slices.ContainsFunc(fields, func(f workflow.Field) bool {
		return f.Key == key
	})
}

// duplicateWarnings returns one warning per id shared by several records.
func duplicateWarnings(t *workflow.Table) []workflow.Warning {
	dups := t.DuplicateIDs()
	if len(dups) == 0 {
		return nil
	}

	where := make(map[string][]string)

	for _, r := range t.Records() {
		if slices.Contains(dups, r.ID) && !slices.Contains(where[r.ID], r.FilePath) {
			where[r.ID] = append(where[r.ID], r.FilePath)
		}
	}

	warnings := make([]workflow.Warning, 0, len(dups))
	for _, id := range dups {
		paths := where[id]
		slices.Sort(paths)

		warnings = append(warnings, workflow.Warning{
			ID:      id,
			Message: fmt.Sprintf("duplicate id %q in %s", id, strings.Join(paths, ", ")),
		})
	}

	return warnings
}
