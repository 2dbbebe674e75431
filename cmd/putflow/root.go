package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/putflow/log"
	"go.jacobcolvin.com/putflow/profile"
)

// app holds state shared by every subcommand.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	log      *log.Config
	profile  *profile.Config
	profiler *profile.Profiler
	config   string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		logger:  slog.New(slog.DiscardHandler),
		log:     log.NewConfig(),
		profile: profile.NewConfig(),
	}

	root := &cobra.Command{
		Use:   "putflow",
		Short: "Build workflow diagrams from put annotations",
		Long: `putflow reads "put" annotations from source code comments, optionally
infers workflow steps from file reads and writes, and draws the result as a
Mermaid flowchart.`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.config, "config", "",
		"config file (default: .putflow.yaml in the current directory or $HOME)")
	a.log.RegisterFlags(root.PersistentFlags())
	a.profile.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newScanCommand(a),
		newDetectCommand(a),
		newMergeCommand(a),
		newRenderCommand(a),
		newGenerateCommand(a),
		newLanguagesCommand(a),
		newSchemaCommand(a),
		newVersionCommand(a),
	)

	err := errors.Join(
		root.MarkPersistentFlagFilename("config", "yaml", "yml"),
		a.log.RegisterCompletions(root),
		a.profile.RegisterCompletions(root),
	)
	if err != nil {
		fmt.Fprintf(stderr, "register completions: %v\n", err)
	}

	return root
}

// setup applies file and environment configuration, then builds the logger
// and starts profiling.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	err := loadConfig(cmd.Flags(), a.config)
	if err != nil {
		return err
	}

	if !a.log.FormatChanged(cmd.Flags()) && !isTerminal(a.stderr) {
		a.log.Format = string(log.FormatLogfmt)
	}

	a.logger, err = a.log.NewLogger(a.stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	a.profiler, err = a.profile.NewProfiler()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if a.profiler.Enabled() {
		a.logger.Debug("profiling enabled", slog.Any("profiles", a.profile.Profiles))
	}

	return a.profiler.Start()
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.profiler == nil {
		return nil
	}

	return a.profiler.Stop()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}

// rootArg returns the scan root: the first argument, or the current
// directory.
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}
