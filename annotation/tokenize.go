package annotation

import (
	"errors"
	"regexp"
	"strings"

	"go.jacobcolvin.com/putflow/workflow"
)

// ErrInvalidAnnotation indicates an annotation payload contains no parseable
// key/value pair.
var ErrInvalidAnnotation = errors.New("invalid annotation")

// pairRegex matches one trimmed `key: "value"` or `key: 'value'` pair.
var pairRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.-]*)\s*:\s*(?:"([^"]*)"|'([^']*)')$`)

// ParseProperties tokenizes an annotation payload into ordered key/value
// pairs. The payload is the text after the comment prefix and the annotation
// keyword.
//
// Commas split pairs only outside quotes; a quote opened with one quote
// character is closed only by the same character. Each pair must have the
// shape key:"value" or key:'value'. Pairs of any other shape are skipped.
// Whitespace inside a value is preserved. When a key repeats, the last value
// wins and keeps the position of the first occurrence.
//
// If no pair parses, ParseProperties returns [ErrInvalidAnnotation].
func ParseProperties(payload string) ([]workflow.Field, error) {
	var fields []workflow.Field

	index := make(map[string]int)

	for _, raw := range splitPairs(payload) {
		pair := strings.TrimSpace(raw)

		m := pairRegex.FindStringSubmatchIndex(pair)
		if m == nil {
			continue
		}

		key := pair[m[2]:m[3]]

		// Group 2 holds a double-quoted value, group 3 a single-quoted one.
		var value string
		if m[4] >= 0 {
			value = pair[m[4]:m[5]]
		} else {
			value = pair[m[6]:m[7]]
		}

		if i, ok := index[key]; ok {
			fields[i].Value = value

			continue
		}

		index[key] = len(fields)
		fields = append(fields, workflow.Field{Key: key, Value: value})
	}

	if len(fields) == 0 {
		return nil, ErrInvalidAnnotation
	}

	return fields, nil
}

// splitPairs splits s on commas that are not inside a quoted string.
func splitPairs(s string) []string {
	var (
		parts []string
		cur   strings.Builder
		quote rune
	)

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ',':
			parts = append(parts, cur.String())
			cur.Reset()

			continue
		}

		cur.WriteRune(r)
	}

	return append(parts, cur.String())
}
