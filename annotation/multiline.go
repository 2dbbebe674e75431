package annotation

import (
	"regexp"
	"strings"

	"go.jacobcolvin.com/putflow/syntax"
)

// Keyword marks a comment as an annotation.
const Keyword = "put"

// continuation ends a physical line that continues on the next one.
const continuation = `\`

// dialect holds the compiled line patterns for one comment prefix.
type dialect struct {
	// marker matches the start of an annotation: prefix, keyword, then one
	// of '|', whitespace or ':'.
	marker *regexp.Regexp
	// comment matches any line commented with the prefix, including the
	// whitespace that follows it.
	comment *regexp.Regexp
	prefix  string
}

var dialects = func() map[string]*dialect {
	m := make(map[string]*dialect)

	for _, p := range []string{syntax.PrefixHash, syntax.PrefixDash, syntax.PrefixSlash, syntax.PrefixPercent} {
		m[p] = newDialect(p)
	}

	return m
}()

func newDialect(prefix string) *dialect {
	q := regexp.QuoteMeta(prefix)

	return &dialect{
		prefix:  prefix,
		marker:  regexp.MustCompile(`^\s*` + q + `\s*` + Keyword + `(?:\||\s|:)`),
		comment: regexp.MustCompile(`^\s*` + q + `\s*`),
	}
}

// dialectFor returns the dialect for prefix, compiling one if the prefix is
// not in the syntax table.
func dialectFor(prefix string) *dialect {
	if d, ok := dialects[prefix]; ok {
		return d
	}

	return newDialect(prefix)
}

// IsAnnotation reports whether line starts an annotation in the comment
// syntax with the given prefix.
func IsAnnotation(line, prefix string) bool {
	return dialectFor(prefix).marker.MatchString(line)
}

// Payload strips the comment prefix and annotation keyword from line. It
// returns false if line does not start an annotation.
func Payload(line, prefix string) (string, bool) {
	loc := dialectFor(prefix).marker.FindStringIndex(line)
	if loc == nil {
		return "", false
	}

	return line[loc[1]:], true
}

// Collect assembles the logical annotation that starts at lines[start] and
// returns it along with the index of the last physical line consumed.
//
// A line ending in a backslash (ignoring trailing whitespace) continues on
// the next line. Continuation stops at a line that starts a new annotation,
// at a line that is not a comment with the same prefix, or at a continuation
// line that does not itself end in a backslash. The text of each
// continuation line, with its prefix stripped, is appended with a separating
// comma unless it already starts with one. A line without a continuation
// marker is returned unchanged.
func Collect(lines []string, start int, prefix string) (string, int) {
	d := dialectFor(prefix)
	line := lines[start]

	text, more := trimContinuation(line)
	if !more {
		return line, start
	}

	var sb strings.Builder

	sb.WriteString(strings.TrimRight(text, " \t"))

	// A bare "# put \" line has no pairs yet, so the first continuation
	// must not be preceded by a comma.
	payload, _ := Payload(sb.String()+" ", prefix)
	empty := strings.TrimSpace(payload) == ""

	last := start
	for more && last+1 < len(lines) {
		next := lines[last+1]
		if d.marker.MatchString(next) {
			break
		}

		loc := d.comment.FindStringIndex(next)
		if loc == nil {
			break
		}

		last++

		text, more = trimContinuation(next[loc[1]:])
		text = strings.TrimSpace(text)

		if text == "" {
			continue
		}

		switch {
		case empty:
			sb.WriteString(" ")

			empty = false
		case strings.HasPrefix(text, ","):
		case strings.HasSuffix(sb.String(), ","):
			sb.WriteString(" ")
		default:
			sb.WriteString(", ")
		}

		sb.WriteString(text)
	}

	return sb.String(), last
}

// trimContinuation removes a trailing continuation marker from s and
// reports whether one was present.
func trimContinuation(s string) (string, bool) {
	trimmed := strings.TrimRight(s, " \t")
	if !strings.HasSuffix(trimmed, continuation) {
		return s, false
	}

	return strings.TrimSuffix(trimmed, continuation), true
}
