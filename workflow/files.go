package workflow

import "strings"

// SplitFiles splits a comma-separated file list. Tokens are trimmed, empty
// tokens are dropped and duplicates removed, keeping first occurrence order.
func SplitFiles(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	return UnionFiles(strings.Split(s, ","))
}

// JoinFiles joins files into the comma-separated serialized form.
func JoinFiles(files []string) string {
	return strings.Join(files, ",")
}

// UnionFiles returns the order-preserving union of the given file lists.
// Every token is trimmed; empty tokens and duplicates are dropped.
func UnionFiles(lists ...[]string) []string {
	var out []string

	seen := make(map[string]bool)

	for _, list := range lists {
		for _, f := range list {
			f = strings.TrimSpace(f)
			if f == "" || seen[f] {
				continue
			}

			seen[f] = true
			out = append(out, f)
		}
	}

	return out
}
