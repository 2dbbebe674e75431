package workflow

import "strings"

// NodeKind classifies a workflow node.
//
// Annotations may carry any string; [NodeKind.Known] reports whether it is
// one of the recognized kinds.
type NodeKind string

// Recognized node kinds.
const (
	KindInput    NodeKind = "input"
	KindProcess  NodeKind = "process"
	KindOutput   NodeKind = "output"
	KindDecision NodeKind = "decision"
	KindStart    NodeKind = "start"
	KindEnd      NodeKind = "end"
)

// Kinds returns the recognized node kinds.
func Kinds() []NodeKind {
	return []NodeKind{KindInput, KindProcess, KindOutput, KindDecision, KindStart, KindEnd}
}

// ParseKind normalizes a free-form node kind string. The result may still be
// unknown; check it with [NodeKind.Known].
func ParseKind(s string) NodeKind {
	return NodeKind(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether k is one of [Kinds].
func (k NodeKind) Known() bool {
	switch k {
	case KindInput, KindProcess, KindOutput, KindDecision, KindStart, KindEnd:
		return true
	}

	return false
}

// String returns k as a string.
func (k NodeKind) String() string {
	return string(k)
}

// InferKind derives a node kind from which file sets are populated. A node
// that only produces files is a source, one that only consumes files is a
// sink, and everything else is treated as a processing step.
func InferKind(hasInputs, hasOutputs bool) NodeKind {
	switch {
	case hasOutputs && !hasInputs:
		return KindInput
	case hasInputs && !hasOutputs:
		return KindOutput
	default:
		return KindProcess
	}
}
