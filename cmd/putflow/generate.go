package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/putflow/annotation"
	"go.jacobcolvin.com/putflow/detect"
	"go.jacobcolvin.com/putflow/log"
	"go.jacobcolvin.com/putflow/syntax"
)

func newGenerateCommand(a *app) *cobra.Command {
	src := newSources()

	var multiline bool

	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Print suggested annotations for files without any",
		Long: `generate runs detection over path and prints one suggested put annotation
for every matching file that has no annotation yet, in that file's comment
syntax.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)

			// The scan only finds annotated files; its warnings are noise here.
			quiet := log.WithLevel(a.logger, log.LevelError)

			manual, err := src.scanTable(cmd.Context(), quiet, root)
			if err != nil {
				return err
			}

			auto, err := src.detectTable(cmd.Context(), a.logger, root)
			if err != nil {
				return err
			}

			annotated := make(map[string]bool)
			for _, r := range manual.Records() {
				annotated[r.FilePath] = true
			}

			for _, r := range auto.Records() {
				if annotated[r.FilePath] {
					a.logger.Debug("skipping annotated file", slog.String("file", r.FilePath))

					continue
				}

				delete(r.Properties, detect.PropertyDependencies)

				text := annotation.Generate(r, syntax.Prefix(r.FileType), multiline)

				_, err := fmt.Fprintf(a.stdout, "%s\n%s\n\n", r.FilePath, text)
				if err != nil {
					return fmt.Errorf("write annotation: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&multiline, "multiline", "m", false,
		"wrap each annotation across lines with \\ continuations")

	src.files.RegisterFlags(cmd.Flags())
	src.detect.RegisterFlags(cmd.Flags())

	registerCompletions(a, src.files.RegisterCompletions(cmd), src.detect.RegisterCompletions(cmd))

	return cmd
}
