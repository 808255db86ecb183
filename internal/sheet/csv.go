package sheet

import (
	"encoding/csv"
	"log"
	"strings"
)

// Record is one parsed CSV data row indexed by its header. Field lookup
// tries the given aliases exactly first, then case-insensitively with
// whitespace trimmed, and yields "" when no column matches.
type Record struct {
	header []string
	fields []string
}

// Get returns the value under the first alias that names an existing column,
// or "" when none does.
func (r Record) Get(aliases ...string) string {
	for _, alias := range aliases {
		for i, name := range r.header {
			if i >= len(r.fields) {
				break
			}
			if name == alias {
				return r.fields[i]
			}
		}
	}
	for _, alias := range aliases {
		want := strings.ToLower(strings.TrimSpace(alias))
		for i, name := range r.header {
			if i >= len(r.fields) {
				break
			}
			if strings.ToLower(strings.TrimSpace(name)) == want {
				return r.fields[i]
			}
		}
	}
	return ""
}

// Flag reads a boolean column. The sheet's editors write flags in several
// forms; "sí", "si", "true", "x" and "1" all count as set.
func (r Record) Flag(aliases ...string) bool {
	switch strings.ToLower(strings.TrimSpace(r.Get(aliases...))) {
	case "sí", "si", "true", "x", "1":
		return true
	}
	return false
}

// ParseRecords decodes raw CSV text into records keyed by the header row.
// A malformed payload degrades to zero rows rather than failing the caller:
// a sheet mid-edit should blank a view, not crash it.
func ParseRecords(raw string) []Record {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1

	lines, err := reader.ReadAll()
	if err != nil {
		log.Printf("csv parse failed, treating as empty: %v", err)
		return nil
	}
	if len(lines) < 2 {
		return nil
	}

	header := lines[0]
	records := make([]Record, 0, len(lines)-1)
	for _, fields := range lines[1:] {
		records = append(records, Record{header: header, fields: fields})
	}
	return records
}

// MapRows parses raw CSV and maps each data row through mapRow into its
// canonical typed form.
func MapRows[T any](raw string, mapRow func(Record) T) []T {
	records := ParseRecords(raw)
	if len(records) == 0 {
		return nil
	}
	rows := make([]T, 0, len(records))
	for _, rec := range records {
		rows = append(rows, mapRow(rec))
	}
	return rows
}
