// Package detect infers workflow records from source code that carries no
// annotations.
//
// Detection is line-oriented: each language has ordered lists of regular
// expressions for files read, files written and scripts depended on. When a
// pattern matches a line, every quoted literal on that line that looks like a
// file name is taken. This is a heuristic and accepts both false positives
// and false negatives.
//
// Patterns are data, not code. The built-in catalogue is embedded YAML, and
// further pattern files in the same format (see [Schema]) can be appended
// with [NewCatalog].
package detect
