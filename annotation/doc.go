// Package annotation extracts workflow records from structured comments in
// source files.
//
// An annotation is a comment in the file's own comment syntax, followed by
// the keyword "put" and a comma-separated list of key:"value" pairs:
//
//	# put id:"load", label:"Load data", output:"raw.csv"
//	-- put|id:"query", input:"raw.csv"
//	// put: id:"report", node_type:"output"
//
// A line ending in a backslash continues on the next comment line:
//
//	# put id:"clean", \
//	#     input:"raw.csv", \
//	#     output:"clean.csv"
//
// [Scanner] walks files and turns each annotation into a
// [workflow.Record]. [Generate] renders a record back into an annotation.
package annotation
