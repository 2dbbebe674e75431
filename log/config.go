package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for log configuration.
type Flags struct {
	Level  string
	Format string
}

// Config holds CLI flag values for log configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewLogger] or [Config.NewHandler] to
// build the logger.
type Config struct {
	Flags  Flags
	Level  string
	Format string
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Level:  "log-level",
			Format: "log-format",
		},
	}
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, string(LevelInfo),
		"log level, one of: "+strings.Join(GetAllLevelStrings(), ", "))
	flags.StringVar(&c.Format, c.Flags.Format, string(FormatText),
		"log format, one of: "+strings.Join(GetAllFormatStrings(), ", "))
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	values := map[string][]string{
		c.Flags.Level:  GetAllLevelStrings(),
		c.Flags.Format: GetAllFormatStrings(),
	}

	for _, flag := range []string{c.Flags.Level, c.Flags.Format} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values[flag], cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// FormatChanged reports whether the format flag was set on flags, either on
// the command line or from configuration.
func (c *Config) FormatChanged(flags *pflag.FlagSet) bool {
	f := flags.Lookup(c.Flags.Format)

	return f != nil && f.Changed
}

// NewHandler creates a [slog.Handler] that writes to w. See
// [NewHandlerFromStrings].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}

// NewLogger creates a [slog.Logger] that writes to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	h, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(h), nil
}
