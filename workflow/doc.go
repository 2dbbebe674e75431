// Package workflow holds the data model shared by the scanner, the detector,
// the merge engine and the diagram builder.
//
// A [Record] is one workflow node: an identifier, a label, a [NodeKind], the
// files it consumes and produces, free-form extra properties, and metadata
// about the source file it came from. A [Table] is an immutable, ordered set
// of records with a uniform column set; columns a record never set are
// reported as missing [Cell] values rather than absent keys.
//
// File lists are ordered sets. [SplitFiles] trims every token, drops empty
// tokens and removes duplicates; case is preserved because file systems and
// edge matching are case-sensitive.
//
// Tables serialize to YAML, JSON and CSV with [Encode], and YAML or JSON
// output can be read back with [Decode].
package workflow
