// Package syntax resolves source file extensions to a language name and the
// single-line comment prefix used by that language.
//
// The table has four prefix families: "#", "--", "//" and "%". Lookups are
// first-match across the families, and never fail: an unknown extension
// resolves to the "#" prefix with no language, which keeps annotation
// scanning permissive for file types the table does not list.
package syntax
