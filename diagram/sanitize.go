package diagram

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// placeholderID replaces identifiers that sanitize to nothing. It also
// prefixes identifiers that would start with a digit or collide with a
// Mermaid keyword.
const placeholderID = "node"

var (
	invalidIDChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
	repeatedUnders = regexp.MustCompile(`_{2,}`)
)

// reservedIDs break Mermaid flowchart parsing when used as node ids.
var reservedIDs = []string{
	"end", "graph", "flowchart", "subgraph", "style", "class", "classdef",
	"click", "linkstyle", "direction", "default",
}

// Sanitize rewrites id into a valid Mermaid node identifier matching
// [A-Za-z_][A-Za-z0-9_]*. Characters outside [A-Za-z0-9_] become
// underscores, runs of underscores collapse, and trailing underscores are
// dropped. Results that are empty become "node"; results that start with a
// digit or are a Mermaid keyword get a "node_" prefix.
//
// Sanitize is pure: equal inputs give equal outputs. Distinct inputs may
// share a result; see [IDAllocator].
func Sanitize(id string) string {
	s := invalidIDChars.ReplaceAllString(id, "_")
	s = repeatedUnders.ReplaceAllString(s, "_")
	s = strings.TrimRight(s, "_")

	switch {
	case s == "":
		return placeholderID
	case s[0] >= '0' && s[0] <= '9':
		return placeholderID + "_" + s
	case slices.Contains(reservedIDs, strings.ToLower(s)):
		return placeholderID + "_" + s
	}

	return s
}

// IDAllocator hands out collision-free node identifiers. The first request
// for a sanitized name gets the name itself, later distinct requests get
// name_2, name_3, and so on. Requests for the same key always return the
// same identifier.
//
// The zero value is not usable; create instances with [NewIDAllocator].
type IDAllocator struct {
	byKey map[string]string
	taken map[string]bool
}

// NewIDAllocator creates an empty [IDAllocator].
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		byKey: make(map[string]string),
		taken: make(map[string]bool),
	}
}

// ID returns the identifier for key, allocating one from name on first use.
func (a *IDAllocator) ID(key, name string) string {
	if id, ok := a.byKey[key]; ok {
		return id
	}

	base := Sanitize(name)
	id := base

	for n := 2; a.taken[id]; n++ {
		id = base + "_" + strconv.Itoa(n)
	}

	a.taken[id] = true
	a.byKey[key] = id

	return id
}
