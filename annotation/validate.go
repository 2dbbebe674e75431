package annotation

import (
	"fmt"
	"path"
	"strings"

	"go.jacobcolvin.com/putflow/workflow"
)

// Validate returns content warnings for r: an empty id, an unrecognized node
// kind, or file references without an extension. None of them make the
// record unusable.
func Validate(r *workflow.Record) []string {
	var msgs []string

	if r.ID == "" {
		msgs = append(msgs, "annotation has an empty id")
	}

	if r.Kind != "" && !r.Kind.Known() {
		kinds := make([]string, 0, len(workflow.Kinds()))
		for _, k := range workflow.Kinds() {
			kinds = append(kinds, string(k))
		}

		msgs = append(msgs, fmt.Sprintf("unusual node_type %q, expected one of: %s",
			r.Kind, strings.Join(kinds, ", ")))
	}

	for _, f := range workflow.UnionFiles(r.Inputs, r.Outputs) {
		if path.Ext(f) == "" {
			msgs = append(msgs, fmt.Sprintf("file reference %q has no extension", f))
		}
	}

	return msgs
}

// IsValid reports whether line is an annotation, in any supported comment
// syntax, with at least one well-formed key/value pair.
func IsValid(line string) bool {
	for prefix := range dialects {
		payload, ok := Payload(line, prefix)
		if !ok {
			continue
		}

		_, err := ParseProperties(payload)

		return err == nil
	}

	return false
}
