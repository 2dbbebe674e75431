package diagram

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.jacobcolvin.com/putflow/workflow"
)

var (
	// ErrUnknownDirection indicates a direction is not one of [Directions].
	ErrUnknownDirection = errors.New("unknown direction")
	// ErrUnknownLabelMode indicates a label mode is not one of
	// [LabelModes].
	ErrUnknownLabelMode = errors.New("unknown label mode")
	// ErrEmptyTable indicates there is nothing to draw.
	ErrEmptyTable = errors.New("no records with an id to draw")
)

// Direction is the flowchart layout direction.
type Direction string

// Flowchart directions.
const (
	TopDown   Direction = "TD"
	TopBottom Direction = "TB"
	BottomTop Direction = "BT"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

// Directions returns every direction.
func Directions() []Direction {
	return []Direction{TopDown, TopBottom, BottomTop, LeftRight, RightLeft}
}

// ParseDirection parses a direction, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(Directions(), d) {
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}

	return d, nil
}

// LabelMode selects the text drawn inside nodes.
type LabelMode string

// Label modes.
const (
	// LabelName draws the record id.
	LabelName LabelMode = "name"
	// LabelText draws the record label, falling back to the id.
	LabelText LabelMode = "label"
	// LabelBoth draws the label above the id.
	LabelBoth LabelMode = "both"
)

// LabelModes returns every label mode.
func LabelModes() []LabelMode {
	return []LabelMode{LabelName, LabelText, LabelBoth}
}

// ParseLabelMode parses a label mode.
func ParseLabelMode(s string) (LabelMode, error) {
	m := LabelMode(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(LabelModes(), m) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabelMode, s)
	}

	return m, nil
}

// shape is the pair of brackets around a node label.
type shape struct {
	open, close string
}

var (
	shapes = map[workflow.NodeKind]shape{
		workflow.KindInput:    {"([", "])"},
		workflow.KindProcess:  {"[", "]"},
		workflow.KindOutput:   {"[[", "]]"},
		workflow.KindDecision: {"{", "}"},
		workflow.KindStart:    {"([", "])"},
		workflow.KindEnd:      {"([", "])"},
		KindArtifact:          {"[(", ")]"},
	}
	defaultShape = shapes[workflow.KindProcess]
)

// shapeFor returns the brackets of kind, defaulting to the process shape.
func shapeFor(kind workflow.NodeKind) shape {
	if s, ok := shapes[kind]; ok {
		return s
	}

	return defaultShape
}
