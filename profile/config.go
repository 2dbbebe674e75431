package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration.
type Flags struct {
	Dir      string
	Profiles string
}

// Config holds profiling configuration. A zero-value Config has profiling
// disabled.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	Flags    Flags
	Dir      string
	Profiles []string
}

// NewConfig creates a new [Config] with default flag names and profiling
// disabled.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Dir:      "profile-dir",
			Profiles: "profile",
		},
	}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Dir, c.Flags.Dir, ".",
		"directory for profile output files")
	flags.StringSliceVar(&c.Profiles, c.Flags.Profiles, nil,
		fmt.Sprintf("profiles to write, any of: %s", strings.Join(Kinds(), ", ")))
}

// RegisterCompletions registers shell completions for profile flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Profiles,
		cobra.FixedCompletions(Kinds(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Profiles, err)
	}

	err = cmd.MarkFlagDirname(c.Flags.Dir)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Dir, err)
	}

	return nil
}

// NewProfiler creates a [Profiler] using this [Config]. Unknown profile
// names are an error.
func (c *Config) NewProfiler() (*Profiler, error) {
	var kinds []string

	for _, p := range c.Profiles {
		k := strings.ToLower(strings.TrimSpace(p))
		if !slices.Contains(Kinds(), k) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, p)
		}

		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}

	return &Profiler{dir: c.Dir, kinds: kinds}, nil
}
