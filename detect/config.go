package detect

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/putflow/files"
)

// Flags holds CLI flag names for detector configuration.
type Flags struct {
	Inputs       string
	Outputs      string
	Dependencies string
	Patterns     string
}

// Config holds CLI flag values for detector configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewDetector] to create a [Detector].
type Config struct {
	Flags        Flags
	Patterns     []string
	Inputs       bool
	Outputs      bool
	Dependencies bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Inputs:       "inputs",
		Outputs:      "outputs",
		Dependencies: "dependencies",
		Patterns:     "patterns",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds detector flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.Inputs, c.Flags.Inputs, true,
		"detect files read")
	flags.BoolVar(&c.Outputs, c.Flags.Outputs, true,
		"detect files written")
	flags.BoolVar(&c.Dependencies, c.Flags.Dependencies, true,
		"detect sourced scripts")
	flags.StringSliceVar(&c.Patterns, c.Flags.Patterns, nil,
		"additional detection pattern files (YAML or JSON)")
}

// RegisterCompletions registers shell completions for detector flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	boolComp := cobra.FixedCompletions([]string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp)

	for _, flag := range []string{c.Flags.Inputs, c.Flags.Outputs, c.Flags.Dependencies} {
		err := cmd.RegisterFlagCompletionFunc(flag, boolComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Patterns,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Patterns, err)
	}

	return nil
}

// Catalog compiles the built-in patterns followed by the configured pattern
// files.
func (c *Config) Catalog() (*Catalog, error) {
	pfs := []*PatternFile{BuiltinPatterns()}

	for _, path := range c.Patterns {
		data, err := os.ReadFile(path) //nolint:gosec // User-selected pattern file.
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidOption, path, err)
		}

		pf, err := ParsePatternFile(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidOption, path, err)
		}

		pfs = append(pfs, pf)
	}

	cat, err := NewCatalog(pfs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	return cat, nil
}

// Categories returns the enabled categories.
func (c *Config) Categories() []Category {
	var cats []Category

	if c.Inputs {
		cats = append(cats, CategoryInput)
	}

	if c.Outputs {
		cats = append(cats, CategoryOutput)
	}

	if c.Dependencies {
		cats = append(cats, CategoryDependency)
	}

	return cats
}

// NewDetector creates a [Detector] using this [Config] and the file
// selection in sel. Extra options are applied last.
func (c *Config) NewDetector(sel *files.Config, opts ...Option) (*Detector, error) {
	pattern, err := sel.CompilePattern()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	cat, err := c.Catalog()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithCatalog(cat),
		WithPattern(pattern),
		WithRecursive(sel.Recursive),
		WithLineNumbers(sel.LineNumbers),
		WithCategories(c.Categories()...),
	}

	if sel.Concurrency > 0 {
		base = append(base, WithConcurrency(sel.Concurrency))
	}

	return NewDetector(append(base, opts...)...), nil
}
