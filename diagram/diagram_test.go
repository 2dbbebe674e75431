package diagram_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/putflow/diagram"
	"go.jacobcolvin.com/putflow/stringtest"
	"go.jacobcolvin.com/putflow/workflow"
)

var validID = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func loadClean() *workflow.Table {
	return workflow.NewTable(
		&workflow.Record{
			ID:       "load",
			Label:    "Load Data",
			Kind:     workflow.KindInput,
			FileName: "load.R",
			Outputs:  []string{"raw.csv"},
		},
		&workflow.Record{
			ID:       "clean",
			Kind:     workflow.KindProcess,
			FileName: "clean.py",
			Inputs:   []string{"raw.csv"},
			Outputs:  []string{"clean.csv"},
		},
	)
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want string
	}{
		"already valid":       {in: "load_data", want: "load_data"},
		"dashes":              {in: "my-step", want: "my_step"},
		"dots and spaces":     {in: "step 1.a", want: "step_1_a"},
		"collapsed runs":      {in: "a--b", want: "a_b"},
		"trailing dropped":    {in: "step!", want: "step"},
		"leading digit":       {in: "1st", want: "node_1st"},
		"reserved word":       {in: "end", want: "node_end"},
		"reserved mixed case": {in: "Graph", want: "node_Graph"},
		"empty":               {in: "", want: "node"},
		"only symbols":        {in: "!!!", want: "node"},
		"non ascii":           {in: "café", want: "caf"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := diagram.Sanitize(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Regexp(t, validID, got)
			assert.Equal(t, got, diagram.Sanitize(tc.in))
		})
	}
}

func TestIDAllocator(t *testing.T) {
	t.Parallel()

	ids := diagram.NewIDAllocator()

	assert.Equal(t, "a_b", ids.ID("one", "a-b"))
	assert.Equal(t, "a_b_2", ids.ID("two", "a_b"))
	assert.Equal(t, "a_b_3", ids.ID("three", "a.b"))
	assert.Equal(t, "a_b", ids.ID("one", "ignored"))
	assert.Equal(t, "node", ids.ID("four", ""))
}

func TestRender(t *testing.T) {
	t.Parallel()

	got, err := diagram.NewRenderer().Render(loadClean())
	require.NoError(t, err)

	want := stringtest.JoinLF(
		"flowchart TD",
		`    load(["Load Data"])`,
		`    clean["clean"]`,
		"",
		"    %% Connections",
		"    load --> clean",
		"",
		"    %% Styling",
		"    classDef inputStyle fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000000",
		"    classDef processStyle fill:#f3e5f5,stroke:#4a148c,stroke-width:2px,color:#000000",
		"    class load inputStyle",
		"    class clean processStyle",
	)
	assert.Equal(t, want, got)
}

func TestRenderOptions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts []diagram.Option
		want string
	}{
		"names": {
			opts: []diagram.Option{diagram.WithStyling(false), diagram.WithLabelMode(diagram.LabelName)},
			want: stringtest.JoinLF(
				"flowchart TD",
				`    load(["load"])`,
				`    clean["clean"]`,
				"",
				"    %% Connections",
				"    load --> clean",
			),
		},
		"both with source info": {
			opts: []diagram.Option{
				diagram.WithStyling(false),
				diagram.WithLabelMode(diagram.LabelBoth),
				diagram.WithSourceInfo(true),
			},
			want: stringtest.JoinLF(
				"flowchart TD",
				`    load(["Load Data<br/>load<br/>load.R"])`,
				`    clean["clean<br/>clean.py"]`,
				"",
				"    %% Connections",
				"    load --> clean",
			),
		},
		"edge labels": {
			opts: []diagram.Option{diagram.WithStyling(false), diagram.WithEdgeLabels(true)},
			want: stringtest.JoinLF(
				"flowchart TD",
				`    load(["Load Data"])`,
				`    clean["clean"]`,
				"",
				"    %% Connections",
				"    load -->|raw.csv| clean",
			),
		},
		"fence title and direction": {
			opts: []diagram.Option{
				diagram.WithStyling(false),
				diagram.WithFence(true),
				diagram.WithTitle("Pipeline"),
				diagram.WithDirection(diagram.LeftRight),
			},
			want: stringtest.JoinLF(
				"```mermaid",
				"---",
				"title: Pipeline",
				"---",
				"flowchart LR",
				`    load(["Load Data"])`,
				`    clean["clean"]`,
				"",
				"    %% Connections",
				"    load --> clean",
				"```",
			),
		},
		"artifacts": {
			opts: []diagram.Option{diagram.WithStyling(false), diagram.WithArtifacts(true)},
			want: stringtest.JoinLF(
				"flowchart TD",
				`    load(["Load Data"])`,
				`    clean["clean"]`,
				`    raw_csv[("raw.csv")]`,
				`    clean_csv[("clean.csv")]`,
				"",
				"    %% Connections",
				"    load --> raw_csv",
				"    raw_csv --> clean",
				"    clean --> clean_csv",
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := diagram.NewRenderer(tc.opts...).Render(loadClean())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderTitle(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		title string
		want  string
	}{
		"trailing space":  {title: "My flow ", want: "title: My flow"},
		"padded":          {title: "\t Pipeline \t", want: "title: Pipeline"},
		"needs quoting":   {title: " step: one ", want: `title: "step: one"`},
		"only whitespace": {title: "   "},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := diagram.NewRenderer(diagram.WithTitle(tc.title)).Render(loadClean())
			require.NoError(t, err)

			for line := range strings.SplitSeq(got, "\n") {
				assert.Equal(t, strings.TrimRight(line, " \t"), line)
			}

			if tc.want == "" {
				assert.True(t, strings.HasPrefix(got, "flowchart TD\n"))

				return
			}

			assert.True(t, strings.HasPrefix(got, "---\n"+tc.want+"\n---\nflowchart TD\n"))
		})
	}
}

func TestRenderEdges(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "p", Outputs: []string{"x.csv"}},
		&workflow.Record{ID: "c1", Inputs: []string{"x.csv", "x.csv"}},
		&workflow.Record{ID: "c2", Inputs: []string{"x.csv"}},
		&workflow.Record{ID: "loop", Inputs: []string{"self.csv"}, Outputs: []string{"self.csv"}},
	)

	got, err := diagram.NewRenderer(diagram.WithStyling(false)).Render(tbl)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(got, "-->"))
	assert.Contains(t, got, "    p --> c1")
	assert.Contains(t, got, "    p --> c2")
	assert.NotContains(t, got, "loop --> loop")
}

func TestRenderNodeIDs(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "a-b", Label: `say "hi" <b>`},
		&workflow.Record{ID: "a_b"},
		&workflow.Record{ID: "  "},
	)

	got, err := diagram.NewRenderer(diagram.WithStyling(false)).Render(tbl)
	require.NoError(t, err)

	want := stringtest.JoinLF(
		"flowchart TD",
		`    a_b["say #quot;hi#quot; #lt;b#gt;"]`,
		`    a_b_2["a_b"]`,
	)
	assert.Equal(t, want, got)
}

func TestRenderKinds(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "s", Kind: workflow.KindStart},
		&workflow.Record{ID: "w", Kind: workflow.NodeKind("weird")},
	)

	tcs := map[string]struct {
		boundaries bool
		want       []string
	}{
		"boundaries": {
			boundaries: true,
			want:       []string{`    s(["s"])`, "    class s startStyle", "    class w processStyle"},
		},
		"no boundaries": {
			boundaries: false,
			want:       []string{`    s["s"]`, "    class s processStyle", "    class w processStyle"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := diagram.NewRenderer(diagram.WithBoundaries(tc.boundaries)).Render(tbl)
			require.NoError(t, err)

			for _, line := range tc.want {
				assert.Contains(t, got, line)
			}
		})
	}
}

func TestRenderTheme(t *testing.T) {
	t.Parallel()

	dark, err := diagram.ParseTheme("Dark")
	require.NoError(t, err)

	got, err := diagram.NewRenderer(diagram.WithTheme(dark)).Render(loadClean())
	require.NoError(t, err)
	assert.Contains(t, got, "classDef inputStyle fill:#1a237e,stroke:#3f51b5,stroke-width:2px,color:#ffffff")
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	r := diagram.NewRenderer()

	_, err := r.Render(nil)
	require.ErrorIs(t, err, diagram.ErrEmptyTable)

	_, err = r.Render(workflow.NewTable(&workflow.Record{Label: "no id"}))
	require.ErrorIs(t, err, diagram.ErrEmptyTable)
}

func TestThemes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"light", "dark", "auto", "minimal", "github", "viridis"}, diagram.Themes())

	_, err := diagram.ParseTheme("neon")
	require.ErrorIs(t, err, diagram.ErrUnknownTheme)

	assert.Equal(t, diagram.DefaultTheme, diagram.ThemeByName("neon").Name)

	light := diagram.ThemeByName("light")
	assert.Equal(t, light.Style(workflow.KindProcess), light.Style(workflow.NodeKind("weird")))
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	d, err := diagram.ParseDirection("lr")
	require.NoError(t, err)
	assert.Equal(t, diagram.LeftRight, d)

	_, err = diagram.ParseDirection("up")
	require.ErrorIs(t, err, diagram.ErrUnknownDirection)

	m, err := diagram.ParseLabelMode(" Both ")
	require.NoError(t, err)
	assert.Equal(t, diagram.LabelBoth, m)

	_, err = diagram.ParseLabelMode("id")
	require.ErrorIs(t, err, diagram.ErrUnknownLabelMode)
}

func TestConfigNewRenderer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args []string
		err  error
	}{
		"defaults":      {},
		"all options":   {args: []string{"-d", "LR", "--node-labels", "both", "-t", "github", "--markdown"}},
		"bad theme":     {args: []string{"--theme", "neon"}, err: diagram.ErrUnknownTheme},
		"bad direction": {args: []string{"--direction", "up"}, err: diagram.ErrUnknownDirection},
		"bad labels":    {args: []string{"--node-labels", "id"}, err: diagram.ErrUnknownLabelMode},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := diagram.NewConfig()
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			cfg.RegisterFlags(flags)
			require.NoError(t, flags.Parse(tc.args))

			r, err := cfg.NewRenderer()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)

			got, err := r.Render(loadClean())
			require.NoError(t, err)
			assert.Contains(t, got, "load --> clean")
		})
	}
}
