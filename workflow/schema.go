package workflow

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// row mirrors one encoded [Table] row for schema inference. Pointer fields
// are nullable because missing cells encode as null.
type row struct {
	ID           *string `json:"id" jsonschema:"node identifier"`
	Label        *string `json:"label" jsonschema:"display text"`
	NodeType     *string `json:"node_type" jsonschema:"one of input, process, output, decision, start, end"`
	Input        *string `json:"input" jsonschema:"comma-separated files consumed"`
	Output       *string `json:"output" jsonschema:"comma-separated files produced"`
	FileName     *string `json:"file_name" jsonschema:"base name of the source file"`
	FilePath     *string `json:"file_path" jsonschema:"path of the source file"`
	FileType     *string `json:"file_type" jsonschema:"source file extension without the dot"`
	LineNumber   *int    `json:"line_number,omitempty" jsonschema:"1-based line of the annotation or first detection"`
	AutoDetected *bool   `json:"auto_detected,omitempty" jsonschema:"set when the record was inferred by pattern detection"`
}

// Schema returns the JSON Schema of an encoded [Table]: an array of
// records. Extra annotation properties are allowed as string or null.
func Schema() (*jsonschema.Schema, error) {
	rs, err := jsonschema.For[row](nil)
	if err != nil {
		return nil, fmt.Errorf("infer record schema: %w", err)
	}

	rs.Required = nil
	rs.AdditionalProperties = &jsonschema.Schema{Types: []string{"null", "string"}}

	return &jsonschema.Schema{
		Title:       "putflow workflow table",
		Description: "records discovered from put annotations or pattern detection",
		Type:        "array",
		Items:       rs,
	}, nil
}
