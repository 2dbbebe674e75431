package annotation

import (
	"maps"
	"slices"
	"strings"

	"go.jacobcolvin.com/putflow/workflow"
)

// Generate renders r as an annotation comment using the given comment prefix.
// Only annotation keys are written (id, label, node_type, input, output and
// extra properties), never scanner metadata.
//
// With multiline set, each pair goes on its own physical line joined by
// backslash continuations. Either form scans back to the same record.
func Generate(r *workflow.Record, prefix string, multiline bool) string {
	pairs := formatPairs(r)

	head := prefix + " " + Keyword + " "
	if !multiline || len(pairs) < 2 {
		return head + strings.Join(pairs, ", ")
	}

	var sb strings.Builder

	for i, p := range pairs {
		if i == 0 {
			sb.WriteString(head)
		} else {
			sb.WriteString(prefix + "     ")
		}

		sb.WriteString(p)

		if i < len(pairs)-1 {
			sb.WriteString(", \\\n")
		}
	}

	return sb.String()
}

func formatPairs(r *workflow.Record) []string {
	var pairs []string

	add := func(key, value string) {
		pairs = append(pairs, key+":"+quote(value))
	}

	add(workflow.KeyID, r.ID)

	if r.Label != "" {
		add(workflow.KeyLabel, r.Label)
	}

	if r.Kind != "" {
		add(workflow.KeyNodeType, string(r.Kind))
	}

	if len(r.Inputs) > 0 {
		add(workflow.KeyInput, strings.Join(r.Inputs, ", "))
	}

	if len(r.Outputs) > 0 {
		add(workflow.KeyOutput, strings.Join(r.Outputs, ", "))
	}

	for _, k := range slices.Sorted(maps.Keys(r.Properties)) {
		if workflow.IsReservedKey(k) {
			continue
		}

		add(k, r.Properties[k])
	}

	return pairs
}

// quote wraps v in double quotes, or single quotes when v contains a double
// quote. A value containing both has its double quotes replaced.
func quote(v string) string {
	if !strings.Contains(v, `"`) {
		return `"` + v + `"`
	}

	if !strings.Contains(v, `'`) {
		return `'` + v + `'`
	}

	return `"` + strings.ReplaceAll(v, `"`, `'`) + `"`
}
