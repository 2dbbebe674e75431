package workflow

import "slices"

// Cell is one column value of a [Table] row. Missing is set when the record
// never had a value for the column; this differs from an empty value.
type Cell struct {
	Value   string
	Missing bool
}

// Table is an ordered, immutable collection of records sharing a uniform
// column set: the union of every field seen across the records.
//
// Create instances with [NewTable]. A Table copies its records on the way in
// and on the way out, so callers cannot mutate it after construction.
type Table struct {
	records []*Record
	columns []string
}

// NewTable creates a [Table] holding copies of records. Nil records are
// skipped.
func NewTable(records ...*Record) *Table {
	t := &Table{records: make([]*Record, 0, len(records))}

	seen := make(map[string]bool)

	var extra []string

	for _, r := range records {
		if r == nil {
			continue
		}

		t.records = append(t.records, r.Clone())

		for _, f := range r.Fields() {
			if seen[f.Key] {
				continue
			}

			seen[f.Key] = true

			if !IsReservedKey(f.Key) {
				extra = append(extra, f.Key)
			}
		}
	}

	slices.Sort(extra)

	for _, k := range leadingKeys {
		if seen[k] {
			t.columns = append(t.columns, k)
		}
	}

	t.columns = append(t.columns, extra...)

	for _, k := range trailingKeys {
		if seen[k] {
			t.columns = append(t.columns, k)
		}
	}

	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.records)
}

// Columns returns the table's column names.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}

	return slices.Clone(t.columns)
}

// Record returns a copy of the i-th record.
func (t *Table) Record(i int) *Record {
	return t.records[i].Clone()
}

// Records returns copies of all records, in order.
func (t *Table) Records() []*Record {
	if t == nil {
		return nil
	}

	out := make([]*Record, len(t.records))
	for i, r := range t.records {
		out[i] = r.Clone()
	}

	return out
}

// Row returns the i-th record's values aligned with [Table.Columns].
func (t *Table) Row(i int) []Cell {
	values := make(map[string]string)
	for _, f := range t.records[i].Fields() {
		values[f.Key] = f.Value
	}

	row := make([]Cell, len(t.columns))

	for j, col := range t.columns {
		v, ok := values[col]
		row[j] = Cell{Value: v, Missing: !ok}
	}

	return row
}

// Files returns the distinct file names of the records, in first-seen order.
func (t *Table) Files() []string {
	if t == nil {
		return nil
	}

	var files []string

	seen := make(map[string]bool)

	for _, r := range t.records {
		if seen[r.FileName] {
			continue
		}

		seen[r.FileName] = true
		files = append(files, r.FileName)
	}

	return files
}

// ByFile returns copies of the records grouped by file name.
func (t *Table) ByFile() map[string][]*Record {
	groups := make(map[string][]*Record)

	if t == nil {
		return groups
	}

	for _, r := range t.records {
		groups[r.FileName] = append(groups[r.FileName], r.Clone())
	}

	return groups
}

// DuplicateIDs returns every non-empty id that appears on more than one
// record, in first-seen order.
func (t *Table) DuplicateIDs() []string {
	if t == nil {
		return nil
	}

	counts := make(map[string]int)

	var order []string

	for _, r := range t.records {
		if r.ID == "" {
			continue
		}

		if counts[r.ID] == 0 {
			order = append(order, r.ID)
		}

		counts[r.ID]++
	}

	var dups []string

	for _, id := range order {
		if counts[id] > 1 {
			dups = append(dups, id)
		}
	}

	return dups
}
