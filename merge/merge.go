package merge

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.jacobcolvin.com/putflow/workflow"
)

// ErrUnknownStrategy indicates a strategy name is not one of [Strategies].
var ErrUnknownStrategy = errors.New("unknown merge strategy")

// Strategy decides how auto-detected records combine with annotated ones.
type Strategy string

// Merge strategies.
const (
	// ManualPriority keeps every annotated record as written and adds
	// auto-detected records only for files without annotations.
	ManualPriority Strategy = "manual_priority"
	// Supplement is [ManualPriority], plus annotated records of a file borrow
	// the file's detected inputs when they declare none, and its detected
	// outputs when they only have the default output.
	Supplement Strategy = "supplement"
	// Union is [ManualPriority], plus annotated records of a file gain the
	// file's detected inputs and outputs in addition to their own.
	Union Strategy = "union"
)

// Strategies returns every strategy.
func Strategies() []Strategy {
	return []Strategy{ManualPriority, Supplement, Union}
}

// GetAllStrategyStrings returns the names of all strategies.
func GetAllStrategyStrings() []string {
	out := make([]string, 0, len(Strategies()))
	for _, s := range Strategies() {
		out = append(out, string(s))
	}

	return out
}

// ParseStrategy parses a strategy name. Hyphens are accepted in place of
// underscores.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !slices.Contains(Strategies(), st) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStrategy, s,
			strings.Join(GetAllStrategyStrings(), ", "))
	}

	return st, nil
}

// String returns s as a string.
func (s Strategy) String() string {
	return string(s)
}

// Merge combines a table of annotated records with a table of auto-detected
// records, matching them by file name. Annotated records always come first,
// in their original order, followed by auto-detected records of files that
// have no annotations.
//
// Neither input is modified. A nil table is treated as empty.
func Merge(manual, auto *workflow.Table, s Strategy) *workflow.Table {
	if manual == nil {
		manual = workflow.NewTable()
	}

	if auto == nil {
		auto = workflow.NewTable()
	}

	manualRecs := manual.Records()
	autoRecs := auto.Records()

	annotated := make(map[string]bool)
	for _, r := range manualRecs {
		if r.FileName != "" {
			annotated[r.FileName] = true
		}
	}

	detected := make(map[string][]*workflow.Record)
	for _, r := range autoRecs {
		detected[r.FileName] = append(detected[r.FileName], r)
	}

	out := make([]*workflow.Record, 0, len(manualRecs)+len(autoRecs))

	for _, r := range manualRecs {
		if found := detected[r.FileName]; r.FileName != "" && len(found) > 0 {
			apply(r, found, s)
		}

		out = append(out, r)
	}

	for _, r := range autoRecs {
		if !annotated[r.FileName] {
			out = append(out, r)
		}
	}

	return workflow.NewTable(out...)
}

// apply updates r, an annotated record, with the auto-detected records of
// its file.
func apply(r *workflow.Record, found []*workflow.Record, s Strategy) {
	var inputs, outputs []string

	for _, a := range found {
		inputs = workflow.UnionFiles(inputs, a.Inputs)
		outputs = workflow.UnionFiles(outputs, a.Outputs)
	}

	switch s {
	case ManualPriority:
	case Supplement:
		if len(r.Inputs) == 0 {
			r.Inputs = inputs
		}

		if isDefaultOutput(r) && len(outputs) > 0 {
			r.Outputs = outputs
		}
	case Union:
		r.Inputs = workflow.UnionFiles(r.Inputs, inputs)
		r.Outputs = workflow.UnionFiles(r.Outputs, outputs)
	}
}

// isDefaultOutput reports whether r's only output is its own file, the
// value the scanner assigns when an annotation declares no output.
func isDefaultOutput(r *workflow.Record) bool {
	return len(r.Outputs) == 0 || (len(r.Outputs) == 1 && r.Outputs[0] == r.FileName)
}
