package workflow_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/putflow/workflow"
)

func TestSplitFiles(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  []string
	}{
		"empty":             {input: "", want: nil},
		"blank":             {input: "   ", want: nil},
		"single":            {input: "a.csv", want: []string{"a.csv"}},
		"trims tokens":      {input: " a.csv ,  b.csv", want: []string{"a.csv", "b.csv"}},
		"drops empty":       {input: "a.csv,,b.csv,", want: []string{"a.csv", "b.csv"}},
		"dedupes in order":  {input: "b.csv, a.csv, b.csv", want: []string{"b.csv", "a.csv"}},
		"preserves case":    {input: "Data.CSV, data.csv", want: []string{"Data.CSV", "data.csv"}},
		"keeps inner space": {input: "my file.csv", want: []string{"my file.csv"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, workflow.SplitFiles(tc.input))
		})
	}
}

func TestUnionFiles(t *testing.T) {
	t.Parallel()

	got := workflow.UnionFiles([]string{"a", " b"}, []string{"b", "c", ""}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestInferKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, workflow.KindInput, workflow.InferKind(false, true))
	assert.Equal(t, workflow.KindOutput, workflow.InferKind(true, false))
	assert.Equal(t, workflow.KindProcess, workflow.InferKind(true, true))
	assert.Equal(t, workflow.KindProcess, workflow.InferKind(false, false))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, workflow.KindDecision, workflow.ParseKind(" Decision "))
	assert.True(t, workflow.ParseKind("END").Known())
	assert.False(t, workflow.ParseKind("transform").Known())
	assert.False(t, workflow.NodeKind("").Known())
}

func TestRecordFromFields(t *testing.T) {
	t.Parallel()

	r := workflow.RecordFromFields([]workflow.Field{
		{Key: "id", Value: " load "},
		{Key: "label", Value: "Load Data"},
		{Key: "node_type", Value: "input"},
		{Key: "output", Value: "raw.csv, meta.json"},
		{Key: "owner", Value: "data-team"},
		{Key: "line_number", Value: "12"},
		{Key: "auto_detected", Value: "nope"},
	})

	assert.Equal(t, "load", r.ID)
	assert.Equal(t, "Load Data", r.Label)
	assert.Equal(t, workflow.KindInput, r.Kind)
	assert.Nil(t, r.Inputs)
	assert.Equal(t, []string{"raw.csv", "meta.json"}, r.Outputs)
	assert.Equal(t, 12, r.LineNumber)
	assert.False(t, r.AutoDetected)
	assert.Equal(t, map[string]string{"owner": "data-team", "auto_detected": "nope"}, r.Properties)
}

func TestRecordFields(t *testing.T) {
	t.Parallel()

	r := &workflow.Record{
		ID:         "clean",
		Inputs:     []string{"raw.csv"},
		Outputs:    []string{"clean.csv"},
		Properties: map[string]string{"zeta": "1", "alpha": "2"},
		FileName:   "clean.R",
		FileType:   "R",
	}

	keys := make([]string, 0)
	for _, f := range r.Fields() {
		keys = append(keys, f.Key)
	}

	assert.Equal(t, []string{
		"id", "input", "output", "alpha", "zeta", "file_name", "file_type", "auto_detected",
	}, keys)

	v, ok := r.Get("input")
	require.True(t, ok)
	assert.Equal(t, "raw.csv", v)

	_, ok = r.Get("label")
	assert.False(t, ok)
}

func TestRecordClone(t *testing.T) {
	t.Parallel()

	r := &workflow.Record{
		ID:         "a",
		Inputs:     []string{"x"},
		Properties: map[string]string{"k": "v"},
	}

	c := r.Clone()
	c.Inputs[0] = "changed"
	c.Properties["k"] = "changed"

	assert.Equal(t, "x", r.Inputs[0])
	assert.Equal(t, "v", r.Properties["k"])
}

func TestTableColumnsAndMissingCells(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "a", Label: "A", Properties: map[string]string{"owner": "me"}, FileName: "a.R"},
		nil,
		&workflow.Record{ID: "b", Outputs: []string{"b.csv"}, FileName: "b.R"},
	)

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"id", "label", "output", "owner", "file_name", "auto_detected"}, tbl.Columns())

	row := tbl.Row(1)
	assert.Equal(t, workflow.Cell{Value: "b"}, row[0])
	assert.True(t, row[1].Missing, "label should be missing")
	assert.Equal(t, workflow.Cell{Value: "b.csv"}, row[2])
	assert.True(t, row[3].Missing, "owner should be missing")
}

func TestTableIsImmutable(t *testing.T) {
	t.Parallel()

	r := &workflow.Record{ID: "a", Inputs: []string{"x.csv"}}
	tbl := workflow.NewTable(r)

	r.ID = "mutated"
	r.Inputs[0] = "mutated"

	got := tbl.Record(0)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, []string{"x.csv"}, got.Inputs)

	got.ID = "again"
	assert.Equal(t, "a", tbl.Records()[0].ID)
}

func TestTableDuplicateIDs(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "x"},
		&workflow.Record{ID: ""},
		&workflow.Record{ID: "y"},
		&workflow.Record{ID: "x"},
		&workflow.Record{ID: ""},
		&workflow.Record{ID: "x"},
	)

	assert.Equal(t, []string{"x"}, tbl.DuplicateIDs())
}

func TestTableFilesAndByFile(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "a", FileName: "one.R"},
		&workflow.Record{ID: "b", FileName: "two.py"},
		&workflow.Record{ID: "c", FileName: "one.R"},
	)

	assert.Equal(t, []string{"one.R", "two.py"}, tbl.Files())

	groups := tbl.ByFile()
	require.Len(t, groups["one.R"], 2)
	assert.Equal(t, "c", groups["one.R"][1].ID)
}

func TestEncodeJSON(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "a", Label: "A", LineNumber: 3, FileName: "a.R"},
		&workflow.Record{ID: "b", AutoDetected: true, FileName: "b.R"},
	)

	var buf bytes.Buffer

	require.NoError(t, workflow.Encode(&buf, tbl, workflow.FormatJSON))

	var got []map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0]["label"])
	assert.InDelta(t, 3, got[0]["line_number"], 0)
	assert.Equal(t, false, got[0]["auto_detected"])

	assert.Contains(t, got[1], "label")
	assert.Nil(t, got[1]["label"])
	assert.Nil(t, got[1]["line_number"])
	assert.Equal(t, true, got[1]["auto_detected"])
}

func TestEncodeCSV(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{ID: "a", Outputs: []string{"x.csv", "y.csv"}},
		&workflow.Record{ID: "b"},
	)

	var buf bytes.Buffer

	require.NoError(t, workflow.Encode(&buf, tbl, workflow.FormatCSV))
	assert.Equal(t, "id,output,auto_detected\na,\"x.csv,y.csv\",false\nb,,false\n", buf.String())
}

func TestEncodeDecodeYAML(t *testing.T) {
	t.Parallel()

	tbl := workflow.NewTable(
		&workflow.Record{
			ID:         "load",
			Label:      "Load Data",
			Kind:       workflow.KindInput,
			Outputs:    []string{"raw.csv"},
			Properties: map[string]string{"owner": "me"},
			FileName:   "load.R",
			LineNumber: 2,
		},
		&workflow.Record{ID: "clean", Inputs: []string{"raw.csv"}, FileName: "clean.py", AutoDetected: true},
	)

	var buf bytes.Buffer

	require.NoError(t, workflow.Encode(&buf, tbl, workflow.FormatYAML))

	got, err := workflow.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, tbl.Records(), got.Records())
	assert.Equal(t, tbl.Columns(), got.Columns())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := workflow.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, workflow.FormatJSON, f)

	_, err = workflow.ParseFormat("xml")
	require.ErrorIs(t, err, workflow.ErrUnknownFormat)

	err = workflow.Encode(&bytes.Buffer{}, workflow.NewTable(), workflow.Format("xml"))
	require.ErrorIs(t, err, workflow.ErrUnknownFormat)
}

func TestSchemaValidatesEncodedTable(t *testing.T) {
	t.Parallel()

	s, err := workflow.Schema()
	require.NoError(t, err)
	assert.Equal(t, "array", s.Type)

	rs, err := s.Resolve(nil)
	require.NoError(t, err)

	tbl := workflow.NewTable(
		&workflow.Record{
			ID:         "a",
			Kind:       workflow.KindInput,
			Outputs:    []string{"x.csv"},
			LineNumber: 2,
			Properties: map[string]string{"owner": "data-team"},
		},
		&workflow.Record{ID: "b", AutoDetected: true},
	)

	var buf bytes.Buffer

	require.NoError(t, workflow.Encode(&buf, tbl, workflow.FormatJSON))

	var doc any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.NoError(t, rs.Validate(doc))

	require.Error(t, rs.Validate([]any{map[string]any{"id": 7}}))
}
