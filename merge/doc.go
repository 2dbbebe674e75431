// Package merge combines annotated and auto-detected workflow tables.
package merge
