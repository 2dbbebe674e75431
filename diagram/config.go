package diagram

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for diagram configuration.
type Flags struct {
	Direction  string
	Labels     string
	Theme      string
	Title      string
	ShowFiles  string
	Style      string
	Boundaries string
	SourceInfo string
	Artifacts  string
	Markdown   string
}

// Config holds CLI flag values for diagram configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewRenderer] to create a [Renderer].
type Config struct {
	Flags      Flags
	Direction  string
	Labels     string
	Theme      string
	Title      string
	ShowFiles  bool
	Style      bool
	Boundaries bool
	SourceInfo bool
	Artifacts  bool
	Markdown   bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Direction:  "direction",
		Labels:     "node-labels",
		Theme:      "theme",
		Title:      "title",
		ShowFiles:  "show-files",
		Style:      "style",
		Boundaries: "boundaries",
		SourceInfo: "source-info",
		Artifacts:  "artifacts",
		Markdown:   "markdown",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds diagram flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Direction, c.Flags.Direction, "d", string(TopDown),
		"layout direction: TD, TB, BT, LR or RL")
	flags.StringVar(&c.Labels, c.Flags.Labels, string(LabelText),
		"node text: name, label or both")
	flags.StringVarP(&c.Theme, c.Flags.Theme, "t", DefaultTheme,
		"color theme")
	flags.StringVar(&c.Title, c.Flags.Title, "",
		"diagram title")
	flags.BoolVar(&c.ShowFiles, c.Flags.ShowFiles, false,
		"label edges with the file they carry")
	flags.BoolVar(&c.Style, c.Flags.Style, true,
		"color nodes by kind")
	flags.BoolVar(&c.Boundaries, c.Flags.Boundaries, true,
		"draw start and end nodes with their own style")
	flags.BoolVar(&c.SourceInfo, c.Flags.SourceInfo, false,
		"add the source file name to node text")
	flags.BoolVar(&c.Artifacts, c.Flags.Artifacts, false,
		"draw data files as nodes")
	flags.BoolVar(&c.Markdown, c.Flags.Markdown, false,
		"wrap the diagram in a Markdown code fence")
}

// RegisterCompletions registers shell completions for diagram flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	var dirs, modes []string

	for _, d := range Directions() {
		dirs = append(dirs, string(d))
	}

	for _, m := range LabelModes() {
		modes = append(modes, string(m))
	}

	fixed := map[string][]string{
		c.Flags.Direction: dirs,
		c.Flags.Labels:    modes,
		c.Flags.Theme:     Themes(),
	}

	for _, flag := range []string{c.Flags.Direction, c.Flags.Labels, c.Flags.Theme} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(fixed[flag], cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Title, cobra.NoFileCompletions)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Title, err)
	}

	return nil
}

// NewRenderer creates a [Renderer] using this [Config]. Unknown directions,
// label modes and themes are errors.
func (c *Config) NewRenderer() (*Renderer, error) {
	dir, err := ParseDirection(c.Direction)
	if err != nil {
		return nil, err
	}

	mode, err := ParseLabelMode(c.Labels)
	if err != nil {
		return nil, err
	}

	theme, err := ParseTheme(c.Theme)
	if err != nil {
		return nil, err
	}

	return NewRenderer(
		WithDirection(dir),
		WithLabelMode(mode),
		WithTheme(theme),
		WithTitle(c.Title),
		WithEdgeLabels(c.ShowFiles),
		WithStyling(c.Style),
		WithBoundaries(c.Boundaries),
		WithSourceInfo(c.SourceInfo),
		WithArtifacts(c.Artifacts),
		WithFence(c.Markdown),
	), nil
}
