package annotation_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/putflow/annotation"
	"go.jacobcolvin.com/putflow/files"
	"go.jacobcolvin.com/putflow/stringtest"
	"go.jacobcolvin.com/putflow/workflow"
)

func TestParseProperties(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		payload string
		want    []workflow.Field
		err     error
	}{
		"double quotes": {
			payload: `id:"load", label:"Load Data"`,
			want:    []workflow.Field{{Key: "id", Value: "load"}, {Key: "label", Value: "Load Data"}},
		},
		"single quotes": {
			payload: `id:'load', output:'raw.csv'`,
			want:    []workflow.Field{{Key: "id", Value: "load"}, {Key: "output", Value: "raw.csv"}},
		},
		"comma inside quotes": {
			payload: `id:"a", input:"x.csv, y.csv"`,
			want:    []workflow.Field{{Key: "id", Value: "a"}, {Key: "input", Value: "x.csv, y.csv"}},
		},
		"mixed quote kinds": {
			payload: `label:"it's, fine", note:'say "hi", ok'`,
			want: []workflow.Field{
				{Key: "label", Value: "it's, fine"},
				{Key: "note", Value: `say "hi", ok`},
			},
		},
		"whitespace inside value kept": {
			payload: `label:"  padded  "`,
			want:    []workflow.Field{{Key: "label", Value: "  padded  "}},
		},
		"space around colon": {
			payload: `id : "a"`,
			want:    []workflow.Field{{Key: "id", Value: "a"}},
		},
		"malformed pair skipped": {
			payload: `id:"a", broken, label:unquoted, node_type:"process"`,
			want:    []workflow.Field{{Key: "id", Value: "a"}, {Key: "node_type", Value: "process"}},
		},
		"repeated key keeps last value": {
			payload: `id:"a", label:"x", id:"b"`,
			want:    []workflow.Field{{Key: "id", Value: "b"}, {Key: "label", Value: "x"}},
		},
		"empty value": {
			payload: `id:""`,
			want:    []workflow.Field{{Key: "id", Value: ""}},
		},
		"nothing parses": {
			payload: `just some words`,
			err:     annotation.ErrInvalidAnnotation,
		},
		"empty": {
			payload: "",
			err:     annotation.ErrInvalidAnnotation,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := annotation.ParseProperties(tc.payload)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPayload(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		line   string
		prefix string
		want   string
		ok     bool
	}{
		"hash with space":    {line: `# put id:"a"`, prefix: "#", want: `id:"a"`, ok: true},
		"hash no space":      {line: `#put id:"a"`, prefix: "#", want: `id:"a"`, ok: true},
		"pipe":               {line: `-- put|id:"a"`, prefix: "--", want: `id:"a"`, ok: true},
		"colon":              {line: `// put: id:"a"`, prefix: "//", want: ` id:"a"`, ok: true},
		"indented":           {line: `    % put id:"a"`, prefix: "%", want: `id:"a"`, ok: true},
		"keyword prefix":     {line: `# putative id:"a"`, prefix: "#", ok: false},
		"wrong prefix":       {line: `// put id:"a"`, prefix: "#", ok: false},
		"code before marker": {line: `x <- 1 # put id:"a"`, prefix: "#", ok: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := annotation.Payload(tc.line, tc.prefix)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, annotation.IsAnnotation(tc.line, tc.prefix))
		})
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		prefix   string
		start    int
		want     string
		wantLast int
	}{
		"single line unchanged": {
			input:    `# put id:"a", output:"x.csv"   `,
			prefix:   "#",
			want:     `# put id:"a", output:"x.csv"   `,
			wantLast: 0,
		},
		"continuation adds comma": {
			input: stringtest.Input(`
				# put id:"a", input:"r.csv" \
				#    output:"x.csv"
				x <- 1
			`),
			prefix:   "#",
			want:     `# put id:"a", input:"r.csv", output:"x.csv"`,
			wantLast: 1,
		},
		"trailing comma on first line": {
			input: stringtest.Input(`
				-- put id:"a", \
				--     label:"A", \
				--     output:"x.csv"
			`),
			prefix:   "--",
			want:     `-- put id:"a", label:"A", output:"x.csv"`,
			wantLast: 2,
		},
		"leading comma on continuation": {
			input: stringtest.Input(`
				// put id:"a" \
				//   , output:"x.csv"
			`),
			prefix:   "//",
			want:     `// put id:"a", output:"x.csv"`,
			wantLast: 1,
		},
		"bare first line": {
			input: stringtest.Input(`
				# put \
				#   id:"a", \
				#   output:"x.csv"
			`),
			prefix:   "#",
			want:     `# put id:"a", output:"x.csv"`,
			wantLast: 2,
		},
		"stops at non comment": {
			input: stringtest.Input(`
				# put id:"a" \
				x <- read.csv("a.csv")
			`),
			prefix:   "#",
			want:     `# put id:"a"`,
			wantLast: 0,
		},
		"stops at next annotation": {
			input: stringtest.Input(`
				# put id:"a" \
				# put id:"b"
			`),
			prefix:   "#",
			want:     `# put id:"a"`,
			wantLast: 0,
		},
		"stops after line without marker": {
			input: stringtest.Input(`
				# put id:"a" \
				#   output:"x.csv"
				#   unrelated comment
			`),
			prefix:   "#",
			want:     `# put id:"a", output:"x.csv"`,
			wantLast: 1,
		},
		"blank comment line skipped": {
			input: stringtest.Input(`
				# put id:"a" \
				# \
				#   output:"x.csv"
			`),
			prefix:   "#",
			want:     `# put id:"a", output:"x.csv"`,
			wantLast: 2,
		},
		"continuation at end of file": {
			input:    `# put id:"a" \`,
			prefix:   "#",
			want:     `# put id:"a"`,
			wantLast: 0,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lines := strings.Split(tc.input, "\n")

			got, last := annotation.Collect(lines, tc.start, tc.prefix)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantLast, last)
		})
	}
}

func TestCollectMatchesSingleLine(t *testing.T) {
	t.Parallel()

	multi := []string{`# put id:"a", input:"r.csv" \`, `#    output:"x.csv"`}
	single := `# put id:"a", input:"r.csv", output:"x.csv"`

	got, _ := annotation.Collect(multi, 0, "#")

	gotPayload, ok := annotation.Payload(got, "#")
	require.True(t, ok)

	wantPayload, ok := annotation.Payload(single, "#")
	require.True(t, ok)

	gotFields, err := annotation.ParseProperties(gotPayload)
	require.NoError(t, err)

	wantFields, err := annotation.ParseProperties(wantPayload)
	require.NoError(t, err)

	assert.Equal(t, wantFields, gotFields)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// sequentialIDs returns an id generator producing gen-1, gen-2, ...
func sequentialIDs() func() string {
	var n atomic.Int64

	return func() string {
		return fmt.Sprintf("gen-%d", n.Add(1))
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	writeFile(t, filepath.Join(root, "01_load.R"), stringtest.Input(`
		#put id:"load", label:"Load Data", node_type:"input", output:"raw.csv"
		data <- read.csv("source.csv")
	`))
	writeFile(t, filepath.Join(root, "02_clean.py"), stringtest.Input(`
		import pandas as pd

		# put id:"clean", input:"raw.csv", \
		#     output:"clean.csv", owner:"data-team"
		df = pd.read_csv("raw.csv")
	`))
	writeFile(t, filepath.Join(root, "03_report.sql"), stringtest.Input(`
		-- put|label:"Report"
		SELECT 1;
	`))
	writeFile(t, filepath.Join(root, "README.md"), `# put id:"ignored"`)

	s := annotation.NewScanner(
		annotation.WithLineNumbers(true),
		annotation.WithIDGenerator(sequentialIDs()),
	)

	res, err := s.Scan(t.Context(), root)
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.Empty(t, res.Warnings)

	recs := res.Table.Records()
	require.Len(t, recs, 3)

	load := recs[0]
	assert.Equal(t, "load", load.ID)
	assert.Equal(t, "Load Data", load.Label)
	assert.Equal(t, workflow.KindInput, load.Kind)
	assert.Equal(t, []string{"raw.csv"}, load.Outputs)
	assert.Equal(t, "01_load.R", load.FileName)
	assert.Equal(t, filepath.Join(root, "01_load.R"), load.FilePath)
	assert.Equal(t, "R", load.FileType)
	assert.Equal(t, 1, load.LineNumber)
	assert.False(t, load.AutoDetected)

	clean := recs[1]
	assert.Equal(t, "clean", clean.ID)
	assert.Equal(t, []string{"raw.csv"}, clean.Inputs)
	assert.Equal(t, []string{"clean.csv"}, clean.Outputs)
	assert.Equal(t, map[string]string{"owner": "data-team"}, clean.Properties)
	assert.Equal(t, 3, clean.LineNumber)

	report := recs[2]
	assert.Equal(t, "gen-1", report.ID)
	assert.Equal(t, "Report", report.Label)
	assert.Equal(t, []string{"03_report.sql"}, report.Outputs, "outputs default to the file name")
}

func TestScanSingleFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, path, `# put id:"a"`)

	res, err := annotation.NewScanner().Scan(t.Context(), path)
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "a", res.Table.Record(0).ID)
}

func TestScanRecursive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.R"), `# put id:"top"`)
	writeFile(t, filepath.Join(root, "sub", "nested.R"), `# put id:"nested"`)

	tcs := map[string]struct {
		want      []string
		recursive bool
	}{
		"flat":      {recursive: false, want: []string{"top"}},
		"recursive": {recursive: true, want: []string{"nested", "top"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := annotation.NewScanner(annotation.WithRecursive(tc.recursive)).Scan(t.Context(), root)
			require.NoError(t, err)

			var ids []string
			for _, r := range res.Table.Records() {
				ids = append(ids, r.ID)
			}

			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestScanEmptyResults(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setup   func(t *testing.T, root string)
		message string
	}{
		"no matching files": {
			setup: func(t *testing.T, root string) {
				t.Helper()
				writeFile(t, filepath.Join(root, "README.md"), "hello")
			},
			message: "no files matched the file pattern",
		},
		"no annotations": {
			setup: func(t *testing.T, root string) {
				t.Helper()
				writeFile(t, filepath.Join(root, "a.R"), "x <- 1\n")
			},
			message: "no annotations found",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			tc.setup(t, root)

			res, err := annotation.NewScanner().Scan(t.Context(), root)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Table.Len())
			require.Len(t, res.Warnings, 1)
			assert.Equal(t, tc.message, res.Warnings[0].Message)
		})
	}
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := annotation.NewScanner().Scan(t.Context(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, annotation.ErrScan)
}

func TestScanFileErrorIsolated(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), `# put label:"no id"`)
	writeFile(t, filepath.Join(root, "b.py"), `# put id:"ok"`)

	s := annotation.NewScanner(annotation.WithIDGenerator(func() string {
		panic("boom")
	}))

	res, err := s.Scan(t.Context(), root)
	require.NoError(t, err)

	require.Len(t, res.FileErrors, 1)
	assert.Equal(t, filepath.Join(root, "a.py"), res.FileErrors[0].Path)
	assert.ErrorContains(t, res.FileErrors[0], "boom")
	require.ErrorIs(t, res.Err(), annotation.ErrProcessFile)

	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "ok", res.Table.Record(0).ID)
}

func TestScanDockerfile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Dockerfile"), stringtest.Input(`
		# put id:"img", output:"image.tar"
		FROM scratch
	`))

	res, err := annotation.NewScanner().Scan(t.Context(), root)
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.Empty(t, res.Warnings)

	require.Equal(t, 1, res.Table.Len())

	rec := res.Table.Record(0)
	assert.Equal(t, "img", rec.ID)
	assert.Equal(t, "Dockerfile", rec.FileName)
	assert.Equal(t, []string{"image.tar"}, rec.Outputs)
}

func TestScanDuplicateIDs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.R"), `# put id:"dup", output:"a.csv"`)
	writeFile(t, filepath.Join(root, "b.R"), `# put id:"dup", output:"b.csv"`)
	writeFile(t, filepath.Join(root, "c.R"), `# put id:"unique", output:"c.csv"`)

	res, err := annotation.NewScanner().Scan(t.Context(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Table.Len())

	var dupWarnings []workflow.Warning

	for _, w := range res.Warnings {
		if strings.Contains(w.Message, "duplicate") {
			dupWarnings = append(dupWarnings, w)
		}
	}

	require.Len(t, dupWarnings, 1)
	assert.Equal(t, "dup", dupWarnings[0].ID)
	assert.Contains(t, dupWarnings[0].Message, `"dup"`)
}

func TestScanValidation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.R"), stringtest.Input(`
		# put id:"", output:"a.csv"
		# put id:"b", node_type:"transform", output:"b.csv"
		# put id:"c", input:"rawdata"
		# put nothing parses here
	`))

	tcs := map[string]struct {
		want     []string
		validate bool
		records  int
	}{
		"validation on": {
			validate: true,
			records:  3,
			want: []string{
				"annotation has an empty id",
				`unusual node_type "transform", expected one of: input, process, output, decision, start, end`,
				`file reference "rawdata" has no extension`,
				`invalid annotation syntax: # put nothing parses here`,
			},
		},
		"validation off": {
			validate: false,
			records:  3,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := annotation.NewScanner(annotation.WithValidation(tc.validate))

			res, err := s.Scan(t.Context(), root)
			require.NoError(t, err)
			assert.Equal(t, tc.records, res.Table.Len())

			var got []string
			for _, w := range res.Warnings {
				got = append(got, w.Message)
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScanLinesEmptyIDIsKept(t *testing.T) {
	t.Parallel()

	s := annotation.NewScanner(annotation.WithIDGenerator(func() string { return "generated" }))

	recs, _ := s.ScanLines("a.R", []string{`# put id:"", label:"x"`, `# put label:"y"`})
	require.Len(t, recs, 2)
	assert.Empty(t, recs[0].ID)
	assert.Equal(t, "generated", recs[1].ID)
}

func TestScanLinesGeneratesUUID(t *testing.T) {
	t.Parallel()

	recs, _ := annotation.NewScanner().ScanLines("a.R", []string{`# put label:"x"`})
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].ID, 36)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	r := &workflow.Record{
		ID:         "clean",
		Label:      `Clean "raw" data`,
		Kind:       workflow.KindProcess,
		Inputs:     []string{"raw.csv"},
		Outputs:    []string{"clean.csv", "log.txt"},
		Properties: map[string]string{"owner": "data"},
		FileName:   "clean.R",
	}

	tcs := map[string]struct {
		prefix    string
		want      string
		multiline bool
	}{
		"single line": {
			prefix: "#",
			want: `# put id:"clean", label:'Clean "raw" data', node_type:"process", ` +
				`input:"raw.csv", output:"clean.csv, log.txt", owner:"data"`,
		},
		"multiline": {
			prefix:    "--",
			multiline: true,
			want: stringtest.JoinLF(
				`-- put id:"clean", \`,
				`--     label:'Clean "raw" data', \`,
				`--     node_type:"process", \`,
				`--     input:"raw.csv", \`,
				`--     output:"clean.csv, log.txt", \`,
				`--     owner:"data"`,
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, annotation.Generate(r, tc.prefix, tc.multiline))
		})
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	t.Parallel()

	want := &workflow.Record{
		ID:         "clean",
		Label:      "Clean, tidy data",
		Kind:       workflow.KindProcess,
		Inputs:     []string{"raw.csv", "lookup.csv"},
		Outputs:    []string{"clean.csv"},
		Properties: map[string]string{"owner": "data"},
	}

	for _, multiline := range []bool{false, true} {
		t.Run(fmt.Sprintf("multiline=%t", multiline), func(t *testing.T) {
			t.Parallel()

			lines := strings.Split(annotation.Generate(want, "//", multiline), "\n")

			recs, diag := annotation.NewScanner().ScanLines("clean.go", lines)
			require.Empty(t, diag.Warnings)
			require.Len(t, recs, 1)

			got := recs[0]
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Label, got.Label)
			assert.Equal(t, want.Kind, got.Kind)
			assert.Equal(t, want.Inputs, got.Inputs)
			assert.Equal(t, want.Outputs, got.Outputs)
			assert.Equal(t, want.Properties, got.Properties)
		})
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		line string
		want bool
	}{
		"hash":         {line: `# put id:"a"`, want: true},
		"sql":          {line: `-- put|id:"a"`, want: true},
		"slash":        {line: `// put: id:"a"`, want: true},
		"percent":      {line: `% put id:"a"`, want: true},
		"no pairs":     {line: `# put hello`, want: false},
		"not an annot": {line: `# just a comment`, want: false},
		"code":         {line: `x <- 1`, want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, annotation.IsValid(tc.line))
		})
	}
}

func TestConfigNewScanner(t *testing.T) {
	t.Parallel()

	cfg := annotation.NewConfig()
	sel := files.NewConfig()
	sel.Pattern = "(["

	_, err := cfg.NewScanner(sel)
	require.ErrorIs(t, err, annotation.ErrInvalidOption)
	require.ErrorIs(t, err, files.ErrInvalidPattern)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.R"), `# put id:"a"`)
	writeFile(t, filepath.Join(root, "b.py"), `# put id:"b"`)

	sel.Pattern = `\.R$`
	sel.LineNumbers = true

	s, err := cfg.NewScanner(sel)
	require.NoError(t, err)

	res, err := s.Scan(t.Context(), root)
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "a", res.Table.Record(0).ID)
	assert.Equal(t, 1, res.Table.Record(0).LineNumber)
}
