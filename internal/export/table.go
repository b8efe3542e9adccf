// Package export writes parsed categories as tab separated tables that the
// KeePass generic CSV importer accepts.
package export

import (
	"fmt"
	"strings"

	"github.com/CaptShanks/kpm2keepass/internal/keepass"
	"github.com/CaptShanks/kpm2keepass/internal/parser"
)

// Table is one category laid out as header plus rows
type Table struct {
	Category string
	Header   []keepass.Column
	Rows     [][]string
}

// BuildTable lays out a category. The header is taken from the first record's
// fields in order; later records only fill those columns. Every field of every
// record must be known to the mapping.
func BuildTable(cat parser.Category, m keepass.Mapping) (*Table, error) {
	t := &Table{Category: cat.Name}
	if len(cat.Records) == 0 {
		return t, nil
	}

	seen := make(map[keepass.Column]bool)
	for _, f := range cat.Records[0].Fields {
		col, ok, err := m.Lookup(f.Name)
		if err != nil {
			return nil, fmt.Errorf("category %q, record 1 (line %d): %w", cat.Name, f.Line, err)
		}
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		t.Header = append(t.Header, col)
	}

	for i, rec := range cat.Records {
		values, err := rowValues(rec, m)
		if err != nil {
			return nil, fmt.Errorf("category %q, record %d: %w", cat.Name, i+1, err)
		}
		row := make([]string, len(t.Header))
		for j, col := range t.Header {
			row[j] = values[col]
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// rowValues maps a record's fields to columns; a later field overwrites an
// earlier one that maps to the same column.
func rowValues(rec parser.Record, m keepass.Mapping) (map[keepass.Column]string, error) {
	values := make(map[keepass.Column]string, len(rec.Fields))
	for _, f := range rec.Fields {
		col, ok, err := m.Lookup(f.Name)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", f.Line, err)
		}
		if !ok {
			continue
		}
		values[col] = strings.TrimSpace(f.Value)
	}
	return values, nil
}
