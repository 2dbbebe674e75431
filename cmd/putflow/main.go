// Command putflow builds workflow diagrams from "put" annotations in source
// code comments.
//
// Annotations are single-line comments in the file's own comment syntax:
//
//	# put id:"load", label:"Load Data", node_type:"input", output:"raw.csv"
//
// putflow collects them into a table of workflow nodes, can infer nodes from
// file reads and writes in un-annotated scripts, and draws the result as a
// Mermaid flowchart.
//
// # Usage
//
//	putflow scan      [path]   print the annotation table
//	putflow detect    [path]   print the auto-detected table
//	putflow merge     [path]   print annotations merged with detection
//	putflow render    [path]   print a Mermaid flowchart
//	putflow generate  [path]   print suggested annotations
//	putflow languages          list supported languages
//	putflow schema    <kind>   print a JSON Schema (record or patterns)
//	putflow version            print build metadata
//
// Flags may also be set in .putflow.yaml (current directory, then $HOME) or
// through PUTFLOW_* environment variables, for example PUTFLOW_LOG_LEVEL.
// Flags given on the command line take precedence.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}
