package workflow

import (
	"errors"
	"fmt"
	"log/slog"
)

// Warning is a non-fatal content diagnostic, such as an annotation with an
// empty id or an unrecognized node kind.
type Warning struct {
	File    string
	ID      string
	Message string
	Line    int
}

// String formats w as "file:line: message".
func (w Warning) String() string {
	switch {
	case w.File != "" && w.Line > 0:
		return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
	case w.File != "":
		return fmt.Sprintf("%s: %s", w.File, w.Message)
	}

	return w.Message
}

// FileError records a file that could not be read or processed. The file
// contributes nothing to the result.
type FileError struct {
	Err  error
	Path string
}

// Error implements error.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// Diagnostics collects the warnings and per-file errors of one scan.
type Diagnostics struct {
	Warnings   []Warning
	FileErrors []*FileError
}

// Warn appends a warning.
func (d *Diagnostics) Warn(w Warning) {
	d.Warnings = append(d.Warnings, w)
}

// Fail appends a per-file error.
func (d *Diagnostics) Fail(path string, err error) {
	d.FileErrors = append(d.FileErrors, &FileError{Path: path, Err: err})
}

// Append adds all diagnostics from other.
func (d *Diagnostics) Append(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.FileErrors = append(d.FileErrors, other.FileErrors...)
}

// Err aggregates every per-file error into one error, or returns nil when
// all files were processed.
func (d *Diagnostics) Err() error {
	if len(d.FileErrors) == 0 {
		return nil
	}

	errs := make([]error, len(d.FileErrors))
	for i, fe := range d.FileErrors {
		errs[i] = fe
	}

	return errors.Join(errs...)
}

// Log writes each warning, and the aggregated file error if any, to logger
// at warn level.
func (d *Diagnostics) Log(logger *slog.Logger) {
	for _, w := range d.Warnings {
		attrs := []any{}

		if w.File != "" {
			attrs = append(attrs, slog.String("file", w.File))
		}

		if w.Line > 0 {
			attrs = append(attrs, slog.Int("line", w.Line))
		}

		if w.ID != "" {
			attrs = append(attrs, slog.String("id", w.ID))
		}

		logger.Warn(w.Message, attrs...)
	}

	if err := d.Err(); err != nil {
		logger.Warn("some files were skipped",
			slog.Int("count", len(d.FileErrors)),
			slog.Any("error", err),
		)
	}
}

// Result is the outcome of a scan or detection pass: the assembled table plus
// any warnings and per-file errors. A non-nil Result always carries a table,
// even when it is empty.
type Result struct {
	Table *Table
	Diagnostics
}
