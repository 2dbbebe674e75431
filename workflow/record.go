package workflow

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Property keys with dedicated [Record] fields.
const (
	KeyID           = "id"
	KeyLabel        = "label"
	KeyNodeType     = "node_type"
	KeyInput        = "input"
	KeyOutput       = "output"
	KeyFileName     = "file_name"
	KeyFilePath     = "file_path"
	KeyFileType     = "file_type"
	KeyLineNumber   = "line_number"
	KeyAutoDetected = "auto_detected"
)

// leadingKeys and trailingKeys order the dedicated fields around the extra
// properties in [Record.Fields].
var (
	leadingKeys  = []string{KeyID, KeyLabel, KeyNodeType, KeyInput, KeyOutput}
	trailingKeys = []string{KeyFileName, KeyFilePath, KeyFileType, KeyLineNumber, KeyAutoDetected}
)

// Record is one discovered or inferred workflow node.
type Record struct {
	// Properties holds annotation keys without a dedicated field.
	Properties map[string]string

	ID       string
	Label    string
	Kind     NodeKind
	FileName string
	FilePath string
	// FileType is the source file extension without the leading dot.
	FileType string

	Inputs  []string
	Outputs []string

	// LineNumber is the 1-based line of the annotation or first detection.
	// Zero means it was not recorded.
	LineNumber int

	AutoDetected bool
}

// Field is one serialized key/value of a [Record].
type Field struct {
	Key   string
	Value string
}

// IsReservedKey reports whether key maps to a dedicated [Record] field.
func IsReservedKey(key string) bool {
	return slices.Contains(leadingKeys, key) || slices.Contains(trailingKeys, key)
}

// RecordFromFields builds a [Record] from serialized key/value pairs. Unknown
// keys become [Record.Properties]. Malformed line numbers and booleans are
// kept as extra properties rather than dropped.
func RecordFromFields(fields []Field) *Record {
	r := &Record{}

	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}

	return r
}

// Set assigns a serialized value to the field named by key.
func (r *Record) Set(key, value string) {
	switch key {
	case KeyID:
		r.ID = strings.TrimSpace(value)
	case KeyLabel:
		r.Label = value
	case KeyNodeType:
		r.Kind = ParseKind(value)
	case KeyInput:
		r.Inputs = SplitFiles(value)
	case KeyOutput:
		r.Outputs = SplitFiles(value)
	case KeyFileName:
		r.FileName = value
	case KeyFilePath:
		r.FilePath = value
	case KeyFileType:
		r.FileType = value
	case KeyLineNumber:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			r.setProperty(key, value)

			return
		}

		r.LineNumber = n
	case KeyAutoDetected:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			r.setProperty(key, value)

			return
		}

		r.AutoDetected = b
	default:
		r.setProperty(key, value)
	}
}

func (r *Record) setProperty(key, value string) {
	if r.Properties == nil {
		r.Properties = make(map[string]string)
	}

	r.Properties[key] = value
}

// Fields returns the record's set values in canonical column order: id,
// label, node_type, input, output, extra properties sorted by key, then file
// metadata. Unset optional fields are omitted; id and auto_detected are
// always present.
func (r *Record) Fields() []Field {
	fields := []Field{{Key: KeyID, Value: r.ID}}

	if r.Label != "" {
		fields = append(fields, Field{KeyLabel, r.Label})
	}

	if r.Kind != "" {
		fields = append(fields, Field{KeyNodeType, string(r.Kind)})
	}

	if len(r.Inputs) > 0 {
		fields = append(fields, Field{KeyInput, JoinFiles(r.Inputs)})
	}

	if len(r.Outputs) > 0 {
		fields = append(fields, Field{KeyOutput, JoinFiles(r.Outputs)})
	}

	for _, k := range slices.Sorted(maps.Keys(r.Properties)) {
		if IsReservedKey(k) {
			continue
		}

		fields = append(fields, Field{k, r.Properties[k]})
	}

	if r.FileName != "" {
		fields = append(fields, Field{KeyFileName, r.FileName})
	}

	if r.FilePath != "" {
		fields = append(fields, Field{KeyFilePath, r.FilePath})
	}

	if r.FileType != "" {
		fields = append(fields, Field{KeyFileType, r.FileType})
	}

	if r.LineNumber > 0 {
		fields = append(fields, Field{KeyLineNumber, strconv.Itoa(r.LineNumber)})
	}

	fields = append(fields, Field{KeyAutoDetected, strconv.FormatBool(r.AutoDetected)})

	return fields
}

// Get returns the serialized value for key and whether it is set.
func (r *Record) Get(key string) (string, bool) {
	for _, f := range r.Fields() {
		if f.Key == key {
			return f.Value, true
		}
	}

	return "", false
}

// HasOutput reports whether file is one of the record's outputs.
func (r *Record) HasOutput(file string) bool {
	return slices.Contains(r.Outputs, file)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	c := *r
	c.Inputs = slices.Clone(r.Inputs)
	c.Outputs = slices.Clone(r.Outputs)
	c.Properties = maps.Clone(r.Properties)

	return &c
}
