package workflow

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format is a [Table] serialization format.
type Format string

// Supported table formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var (
	// ErrUnknownFormat indicates an unrecognized table format string.
	ErrUnknownFormat = errors.New("unknown table format")
	// ErrDecode indicates a table could not be decoded.
	ErrDecode = errors.New("decode table")
)

// Formats returns the supported table formats.
func Formats() []Format {
	return []Format{FormatYAML, FormatJSON, FormatCSV}
}

// GetAllFormatStrings returns the supported table formats as strings.
func GetAllFormatStrings() []string {
	formats := Formats()
	out := make([]string, len(formats))

	for i, f := range formats {
		out[i] = string(f)
	}

	return out
}

// ParseFormat parses a table format string.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats(), f) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes t to w in the given format. Missing cells are encoded as
// null (YAML, JSON) or an empty field (CSV).
func Encode(w io.Writer, t *Table, format Format) error {
	switch format {
	case FormatYAML:
		return encodeYAML(w, t)
	case FormatJSON:
		return encodeJSON(w, t)
	case FormatCSV:
		return encodeCSV(w, t)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// typedValue converts a serialized cell to its natural YAML/JSON type.
func typedValue(key string, c Cell) any {
	if c.Missing {
		return nil
	}

	switch key {
	case KeyLineNumber:
		if n, err := strconv.Atoi(c.Value); err == nil {
			return n
		}
	case KeyAutoDetected:
		if b, err := strconv.ParseBool(c.Value); err == nil {
			return b
		}
	}

	return c.Value
}

func encodeYAML(w io.Writer, t *Table) error {
	cols := t.Columns()
	rows := make([]yaml.MapSlice, 0, t.Len())

	for i := range t.Len() {
		row := t.Row(i)
		item := make(yaml.MapSlice, len(cols))

		for j, col := range cols {
			item[j] = yaml.MapItem{Key: col, Value: typedValue(col, row[j])}
		}

		rows = append(rows, item)
	}

	b, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}

	return nil
}

// orderedRow marshals to a JSON object with keys in column order.
type orderedRow struct {
	keys   []string
	values []any
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		vb, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func encodeJSON(w io.Writer, t *Table) error {
	cols := t.Columns()
	rows := make([]orderedRow, 0, t.Len())

	for i := range t.Len() {
		row := t.Row(i)
		o := orderedRow{keys: cols, values: make([]any, len(cols))}

		for j, col := range cols {
			o.values[j] = typedValue(col, row[j])
		}

		rows = append(rows, o)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(rows)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func encodeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	err := cw.Write(t.Columns())
	if err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range t.Len() {
		row := t.Row(i)
		values := make([]string, len(row))

		for j, c := range row {
			values[j] = c.Value
		}

		err := cw.Write(values)
		if err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()

	err = cw.Error()
	if err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// Decode reads a table previously written with [FormatYAML] or [FormatJSON].
// Null values are treated as missing.
func Decode(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var rows []yaml.MapSlice

	err = yaml.Unmarshal(data, &rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	records := make([]*Record, 0, len(rows))

	for _, row := range rows {
		fields := make([]Field, 0, len(row))

		for _, item := range row {
			if item.Value == nil {
				continue
			}

			fields = append(fields, Field{
				Key:   fmt.Sprint(item.Key),
				Value: fmt.Sprint(item.Value),
			})
		}

		records = append(records, RecordFromFields(fields))
	}

	return NewTable(records...), nil
}
