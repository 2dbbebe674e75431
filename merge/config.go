package merge

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for merge configuration.
type Flags struct {
	Strategy string
}

// Config holds CLI flag values for merge configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags    Flags
	Strategy string
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	return &Config{Flags: Flags{Strategy: "merge-strategy"}}
}

// RegisterFlags adds merge flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Strategy, c.Flags.Strategy, string(ManualPriority),
		"how detected records combine with annotations: one of manual_priority, supplement, union")
}

// RegisterCompletions registers shell completions for merge flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Strategy,
		cobra.FixedCompletions(GetAllStrategyStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Strategy, err)
	}

	return nil
}

// ParsedStrategy parses [Config.Strategy].
func (c *Config) ParsedStrategy() (Strategy, error) {
	return ParseStrategy(c.Strategy)
}
