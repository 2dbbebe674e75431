package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/putflow/annotation"
	"go.jacobcolvin.com/putflow/detect"
	"go.jacobcolvin.com/putflow/files"
	"go.jacobcolvin.com/putflow/merge"
	"go.jacobcolvin.com/putflow/workflow"
)

// tableOutput binds the table output format flag.
type tableOutput struct {
	format string
}

func (o *tableOutput) register(cmd *cobra.Command) error {
	cmd.Flags().StringVarP(&o.format, "output-format", "o", string(workflow.FormatYAML),
		fmt.Sprintf("table format, one of: %s", strings.Join(workflow.GetAllFormatStrings(), ", ")))

	err := cmd.RegisterFlagCompletionFunc("output-format",
		cobra.FixedCompletions(workflow.GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering output-format completion: %w", err)
	}

	return nil
}

func (o *tableOutput) write(w io.Writer, t *workflow.Table) error {
	f, err := workflow.ParseFormat(o.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return workflow.Encode(w, t, f)
}

// sources builds the manual and auto-detected tables from one set of flags.
type sources struct {
	files  *files.Config
	scan   *annotation.Config
	detect *detect.Config
	merge  *merge.Config
}

func newSources() *sources {
	return &sources{
		files:  files.NewConfig(),
		scan:   annotation.NewConfig(),
		detect: detect.NewConfig(),
		merge:  merge.NewConfig(),
	}
}

func (s *sources) scanTable(ctx context.Context, logger *slog.Logger, root string) (*workflow.Table, error) {
	sc, err := s.scan.NewScanner(s.files, annotation.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	res, err := sc.Scan(ctx, root)
	if err != nil {
		return nil, err
	}

	return res.Table, nil
}

func (s *sources) detectTable(ctx context.Context, logger *slog.Logger, root string) (*workflow.Table, error) {
	d, err := s.detect.NewDetector(s.files, detect.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	res, err := d.Detect(ctx, root)
	if err != nil {
		return nil, err
	}

	return res.Table, nil
}

// mergedTable scans and detects root and merges the results. Strategy
// errors are reported before any file is read.
func (s *sources) mergedTable(ctx context.Context, logger *slog.Logger, root string) (*workflow.Table, error) {
	strategy, err := s.merge.ParsedStrategy()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	manual, err := s.scanTable(ctx, logger, root)
	if err != nil {
		return nil, err
	}

	auto, err := s.detectTable(ctx, logger, root)
	if err != nil {
		return nil, err
	}

	merged := merge.Merge(manual, auto, strategy)

	logger.Debug("merged tables",
		slog.String("strategy", strategy.String()),
		slog.Int("manual", manual.Len()),
		slog.Int("auto", auto.Len()),
		slog.Int("merged", merged.Len()),
	)

	return merged, nil
}

func newScanCommand(a *app) *cobra.Command {
	src := newSources()
	out := &tableOutput{}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Print the table of put annotations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := src.scanTable(cmd.Context(), a.logger, rootArg(args))
			if err != nil {
				return err
			}

			return out.write(a.stdout, t)
		},
	}

	src.files.RegisterFlags(cmd.Flags())
	src.scan.RegisterFlags(cmd.Flags())

	registerCompletions(a, src.files.RegisterCompletions(cmd), src.scan.RegisterCompletions(cmd), out.register(cmd))

	return cmd
}

func newDetectCommand(a *app) *cobra.Command {
	src := newSources()
	out := &tableOutput{}

	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "Print the table of workflow steps inferred from file reads and writes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := src.detectTable(cmd.Context(), a.logger, rootArg(args))
			if err != nil {
				return err
			}

			return out.write(a.stdout, t)
		},
	}

	src.files.RegisterFlags(cmd.Flags())
	src.detect.RegisterFlags(cmd.Flags())

	registerCompletions(a, src.files.RegisterCompletions(cmd), src.detect.RegisterCompletions(cmd), out.register(cmd))

	return cmd
}

func newMergeCommand(a *app) *cobra.Command {
	src := newSources()
	out := &tableOutput{}

	cmd := &cobra.Command{
		Use:   "merge [path]",
		Short: "Print annotations merged with auto-detected steps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := src.mergedTable(cmd.Context(), a.logger, rootArg(args))
			if err != nil {
				return err
			}

			return out.write(a.stdout, t)
		},
	}

	src.files.RegisterFlags(cmd.Flags())
	src.scan.RegisterFlags(cmd.Flags())
	src.detect.RegisterFlags(cmd.Flags())
	src.merge.RegisterFlags(cmd.Flags())

	registerCompletions(a,
		src.files.RegisterCompletions(cmd),
		src.scan.RegisterCompletions(cmd),
		src.detect.RegisterCompletions(cmd),
		src.merge.RegisterCompletions(cmd),
		out.register(cmd),
	)

	return cmd
}

// registerCompletions reports completion registration failures. They do not
// stop the command.
func registerCompletions(a *app, errs ...error) {
	for _, err := range errs {
		if err != nil {
			fmt.Fprintf(a.stderr, "register completions: %v\n", err)
		}
	}
}
