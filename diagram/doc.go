// Package diagram draws workflow tables as Mermaid flowcharts.
//
// Each record becomes a node shaped by its kind. An edge runs from record A
// to record B whenever one of B's inputs is one of A's outputs. With
// styling enabled, nodes are colored by kind using a named [Theme]:
//
//	flowchart TD
//	    load(["Load Data"])
//	    clean["clean"]
//
//	    %% Connections
//	    load --> clean
//
// Record ids are rewritten into valid Mermaid identifiers with [Sanitize].
// Ids that collide after sanitizing are told apart by [IDAllocator].
package diagram
