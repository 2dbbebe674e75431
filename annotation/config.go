package annotation

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/putflow/files"
)

// Flags holds CLI flag names for scanner configuration.
type Flags struct {
	Validate string
}

// Config holds CLI flag values for scanner configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewScanner] to create a [Scanner].
type Config struct {
	Flags    Flags
	Validate bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	return &Config{Flags: Flags{Validate: "validate"}}
}

// RegisterFlags adds scanner flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.Validate, c.Flags.Validate, true,
		"warn about empty ids, unusual node types, extensionless files and duplicate ids")
}

// RegisterCompletions registers shell completions for scanner flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Validate,
		cobra.FixedCompletions([]string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Validate, err)
	}

	return nil
}

// NewScanner creates a [Scanner] using this [Config] and the file selection
// in sel. Extra options are applied last.
func (c *Config) NewScanner(sel *files.Config, opts ...Option) (*Scanner, error) {
	pattern, err := sel.CompilePattern()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	base := []Option{
		WithPattern(pattern),
		WithRecursive(sel.Recursive),
		WithLineNumbers(sel.LineNumbers),
		WithValidation(c.Validate),
	}

	if sel.Concurrency > 0 {
		base = append(base, WithConcurrency(sel.Concurrency))
	}

	return NewScanner(append(base, opts...)...), nil
}
