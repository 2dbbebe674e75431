package files

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for file selection.
type Flags struct {
	Pattern     string
	Recursive   string
	LineNumbers string
	Concurrency string
}

// Config holds CLI flag values shared by everything that walks source files:
// which files to read, how deep to go, how many to read at once, and whether
// records carry line numbers.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags       Flags
	Pattern     string
	Concurrency int
	Recursive   bool
	LineNumbers bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Pattern:     "pattern",
		Recursive:   "recursive",
		LineNumbers: "line-numbers",
		Concurrency: "concurrency",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds file selection flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Pattern, c.Flags.Pattern, "p", "",
		"regular expression matched against file names (default: all supported extensions)")
	flags.BoolVarP(&c.Recursive, c.Flags.Recursive, "r", false,
		"walk subdirectories")
	flags.BoolVar(&c.LineNumbers, c.Flags.LineNumbers, false,
		"record the line number of each record")
	flags.IntVar(&c.Concurrency, c.Flags.Concurrency, 0,
		"files processed in parallel (0: number of CPUs)")
}

// RegisterCompletions registers shell completions for file selection flags
// on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Pattern, c.Flags.Concurrency} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// CompilePattern compiles [Config.Pattern]. See [CompilePattern].
func (c *Config) CompilePattern() (*regexp.Regexp, error) {
	return CompilePattern(c.Pattern)
}
