package diagram

import (
	"errors"
	"fmt"
	"strings"

	"go.jacobcolvin.com/putflow/workflow"
)

// ErrUnknownTheme indicates a theme name is not one of [Themes].
var ErrUnknownTheme = errors.New("unknown theme")

// KindArtifact styles data file nodes drawn when artifacts are enabled. It
// never appears on a [workflow.Record].
const KindArtifact workflow.NodeKind = "artifact"

// Style is the color triple of one node kind.
type Style struct {
	Fill   string
	Stroke string
	Color  string
}

// Theme is a named color table.
type Theme struct {
	styles map[workflow.NodeKind]Style
	Name   string
}

// Style returns the style of kind. Kinds the theme does not list use the
// process style.
func (t Theme) Style(kind workflow.NodeKind) Style {
	if s, ok := t.styles[kind]; ok {
		return s
	}

	return t.styles[workflow.KindProcess]
}

// DefaultTheme is used when no theme is configured and as the fallback of
// [ThemeByName].
const DefaultTheme = "light"

var themes = []Theme{
	{
		Name: "light",
		styles: map[workflow.NodeKind]Style{
			workflow.KindInput:    {Fill: "#e1f5fe", Stroke: "#01579b", Color: "#000000"},
			workflow.KindProcess:  {Fill: "#f3e5f5", Stroke: "#4a148c", Color: "#000000"},
			workflow.KindOutput:   {Fill: "#e8f5e8", Stroke: "#1b5e20", Color: "#000000"},
			workflow.KindDecision: {Fill: "#fff3e0", Stroke: "#e65100", Color: "#000000"},
			workflow.KindStart:    {Fill: "#c8e6c9", Stroke: "#2e7d32", Color: "#000000"},
			workflow.KindEnd:      {Fill: "#ffcdd2", Stroke: "#c62828", Color: "#000000"},
			KindArtifact:          {Fill: "#f5f5f5", Stroke: "#616161", Color: "#000000"},
		},
	},
	{
		Name: "dark",
		styles: map[workflow.NodeKind]Style{
			workflow.KindInput:    {Fill: "#1a237e", Stroke: "#3f51b5", Color: "#ffffff"},
			workflow.KindProcess:  {Fill: "#4a148c", Stroke: "#9c27b0", Color: "#ffffff"},
			workflow.KindOutput:   {Fill: "#1b5e20", Stroke: "#4caf50", Color: "#ffffff"},
			workflow.KindDecision: {Fill: "#e65100", Stroke: "#ff9800", Color: "#ffffff"},
			workflow.KindStart:    {Fill: "#2e7d32", Stroke: "#66bb6a", Color: "#ffffff"},
			workflow.KindEnd:      {Fill: "#b71c1c", Stroke: "#ef5350", Color: "#ffffff"},
			KindArtifact:          {Fill: "#37474f", Stroke: "#90a4ae", Color: "#ffffff"},
		},
	},
	{
		Name: "auto",
		styles: map[workflow.NodeKind]Style{
			workflow.KindInput:    {Fill: "#3b82f6", Stroke: "#1d4ed8", Color: "#ffffff"},
			workflow.KindProcess:  {Fill: "#8b5cf6", Stroke: "#6d28d9", Color: "#ffffff"},
			workflow.KindOutput:   {Fill: "#10b981", Stroke: "#047857", Color: "#ffffff"},
			workflow.KindDecision: {Fill: "#f59e0b", Stroke: "#d97706", Color: "#000000"},
			workflow.KindStart:    {Fill: "#22c55e", Stroke: "#15803d", Color: "#ffffff"},
			workflow.KindEnd:      {Fill: "#ef4444", Stroke: "#b91c1c", Color: "#ffffff"},
			KindArtifact:          {Fill: "#6b7280", Stroke: "#374151", Color: "#ffffff"},
		},
	},
	{
		Name: "minimal",
		styles: map[workflow.NodeKind]Style{
			workflow.KindInput:    {Fill: "#f8fafc", Stroke: "#64748b", Color: "#1e293b"},
			workflow.KindProcess:  {Fill: "#f1f5f9", Stroke: "#475569", Color: "#1e293b"},
			workflow.KindOutput:   {Fill: "#f8fafc", Stroke: "#334155", Color: "#1e293b"},
			workflow.KindDecision: {Fill: "#fefce8", Stroke: "#a16207", Color: "#1e293b"},
			workflow.KindStart:    {Fill: "#f0fdf4", Stroke: "#4d7c0f", Color: "#1e293b"},
			workflow.KindEnd:      {Fill: "#fef2f2", Stroke: "#b91c1c", Color: "#1e293b"},
			KindArtifact:          {Fill: "#ffffff", Stroke: "#94a3b8", Color: "#1e293b"},
		},
	},
	{
		Name: "github",
		styles: map[workflow.NodeKind]Style{
			workflow.KindInput:    {Fill: "#dbeafe", Stroke: "#2563eb", Color: "#1e40af"},
			workflow.KindProcess:  {Fill: "#ede9fe", Stroke: "#7c3aed", Color: "#5b21b6"},
			workflow.KindOutput:   {Fill: "#dcfce7", Stroke: "#16a34a", Color: "#15803d"},
			workflow.KindDecision: {Fill: "#fef3c7", Stroke: "#d97706", Color: "#92400e"},
			workflow.KindStart:    {Fill: "#d1fae5", Stroke: "#059669", Color: "#065f46"},
			workflow.KindEnd:      {Fill: "#fee2e2", Stroke: "#dc2626", Color: "#991b1b"},
			KindArtifact:          {Fill: "#f3f4f6", Stroke: "#6b7280", Color: "#374151"},
		},
	},
	{
		Name: "viridis",
		styles: map[workflow.NodeKind]Style{
			workflow.KindInput:    {Fill: "#440154", Stroke: "#31688e", Color: "#ffffff"},
			workflow.KindProcess:  {Fill: "#31688e", Stroke: "#35b779", Color: "#ffffff"},
			workflow.KindOutput:   {Fill: "#35b779", Stroke: "#fde725", Color: "#000000"},
			workflow.KindDecision: {Fill: "#fde725", Stroke: "#440154", Color: "#000000"},
			workflow.KindStart:    {Fill: "#21918c", Stroke: "#440154", Color: "#ffffff"},
			workflow.KindEnd:      {Fill: "#90d743", Stroke: "#31688e", Color: "#000000"},
			KindArtifact:          {Fill: "#443983", Stroke: "#21918c", Color: "#ffffff"},
		},
	},
}

// Themes returns the names of every theme.
func Themes() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}

	return names
}

// ParseTheme returns the theme called name. Unknown names are an error.
func ParseTheme(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	for _, t := range themes {
		if t.Name == key {
			return t, nil
		}
	}

	return Theme{}, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownTheme, name, strings.Join(Themes(), ", "))
}

// ThemeByName returns the theme called name, or the [DefaultTheme] when
// there is none.
func ThemeByName(name string) Theme {
	t, err := ParseTheme(name)
	if err != nil {
		t, _ = ParseTheme(DefaultTheme)
	}

	return t
}
