// Package stringtest provides helpers for building test fixtures and
// expected output from inline string literals.
package stringtest

import "strings"

// Input dedents a raw string literal so fixtures can be indented along with
// the surrounding test code. One leading and one trailing newline are
// removed, the indentation shared by all non-blank lines is stripped, and
// whitespace-only lines become empty.
//
// Example:
//
//	src := stringtest.Input(`
//		# put id:"load", output:"raw.csv"
//		read.csv("input.csv")
//	`)
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")
	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			lines[i] = ""
		case indent > 0:
			lines[i] = line[indent:]
		}
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins lines with LF line endings.
// Use this to construct expected multi-line output.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"flowchart TD",
//		"    a --> b",
//	) // -> "flowchart TD\n    a --> b"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// JoinCRLF joins lines with CRLF line endings.
// Use this to construct fixtures that exercise Windows line endings.
func JoinCRLF(ss ...string) string {
	return strings.Join(ss, "\r\n")
}
