package detect

import (
	"regexp"
	"slices"
	"strings"
)

var (
	quotedRegex    = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
	extensionRegex = regexp.MustCompile(`\.[A-Za-z0-9]+$`)
	urlRegex       = regexp.MustCompile(`(?i)^(https?|ftp)://`)
)

// literalTokens are quoted values that are never file references.
var literalTokens = []string{"true", "false", "null", "none", "nil", "na", "nan", "inf"}

// Finding is one file reference detected in a file.
type Finding struct {
	Category Category
	File     string
	// Line is 1-based.
	Line int
}

// Match applies the patterns of language to lines, for the given
// categories, and returns every file reference found. Findings are ordered
// by category, then pattern, then line.
//
// For each matching line every quoted literal on that line that passes
// [LooksLikeFile] is taken, whatever the pattern's argument position.
func (c *Catalog) Match(language string, lines []string, cats ...Category) []Finding {
	var findings []Finding

	for _, cat := range Categories() {
		if !slices.Contains(cats, cat) {
			continue
		}

		for _, p := range c.languages[language][cat] {
			for i, line := range lines {
				if !p.re.MatchString(line) {
					continue
				}

				for _, f := range ExtractFiles(line) {
					findings = append(findings, Finding{Category: cat, File: f, Line: i + 1})
				}
			}
		}
	}

	return findings
}

// ExtractFiles returns the quoted literals on line that look like file
// references, in order of appearance.
func ExtractFiles(line string) []string {
	var out []string

	for _, m := range quotedRegex.FindAllStringSubmatch(line, -1) {
		v := m[1]
		if v == "" {
			v = m[2]
		}

		v = strings.TrimSpace(v)

		if LooksLikeFile(v) {
			out = append(out, v)
		}
	}

	return out
}

// LooksLikeFile reports whether s plausibly names a file: it has an
// extension or contains a path separator, is at least three characters
// long, is not an HTTP(S) or FTP URL, and is not a boolean or null-like
// literal.
func LooksLikeFile(s string) bool {
	s = strings.TrimSpace(s)

	switch {
	case len(s) < 3:
		return false
	case urlRegex.MatchString(s):
		return false
	case slices.Contains(literalTokens, strings.ToLower(s)):
		return false
	}

	return extensionRegex.MatchString(s) || strings.ContainsAny(s, `/\`)
}
