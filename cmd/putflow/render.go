package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/putflow/diagram"
	"go.jacobcolvin.com/putflow/workflow"
)

func newRenderCommand(a *app) *cobra.Command {
	src := newSources()
	dia := diagram.NewConfig()

	var auto bool

	cmd := &cobra.Command{
		Use:   "render [path]",
		Short: "Print a Mermaid flowchart of the workflow",
		Long: `render scans path for put annotations and prints a Mermaid flowchart.
With --auto, steps inferred from file reads and writes are merged in
using --merge-strategy.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := dia.NewRenderer()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrConfig, err)
			}

			root := rootArg(args)

			var t *workflow.Table
			if auto {
				t, err = src.mergedTable(cmd.Context(), a.logger, root)
			} else {
				t, err = src.scanTable(cmd.Context(), a.logger, root)
			}

			if err != nil {
				return err
			}

			out, err := r.Render(t)
			if errors.Is(err, diagram.ErrEmptyTable) {
				a.logger.Warn("nothing to draw", slog.String("path", root))

				return nil
			}

			if err != nil {
				return err
			}

			a.logger.Debug("rendered diagram", slog.Int("records", t.Len()))

			_, err = fmt.Fprintln(a.stdout, out)
			if err != nil {
				return fmt.Errorf("write diagram: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&auto, "auto", "a", false,
		"merge in steps inferred from file reads and writes")

	src.files.RegisterFlags(cmd.Flags())
	src.scan.RegisterFlags(cmd.Flags())
	src.detect.RegisterFlags(cmd.Flags())
	src.merge.RegisterFlags(cmd.Flags())
	dia.RegisterFlags(cmd.Flags())

	registerCompletions(a,
		src.files.RegisterCompletions(cmd),
		src.scan.RegisterCompletions(cmd),
		src.detect.RegisterCompletions(cmd),
		src.merge.RegisterCompletions(cmd),
		dia.RegisterCompletions(cmd),
	)

	return cmd
}
