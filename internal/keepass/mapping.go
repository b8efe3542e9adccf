// Package keepass maps Kaspersky field labels onto the columns understood by
// the KeePass generic CSV importer.
package keepass

import (
	"fmt"
	"sort"
)

// Column is a destination column name in the exported table
type Column string

const (
	ColumnTitle    Column = "Title"
	ColumnUserName Column = "User Name"
	ColumnPassword Column = "Password"
	ColumnURL      Column = "URL"
	ColumnNotes    Column = "Notes"
)

// UnknownFieldError is returned for a label that has no column and is not
// explicitly dropped. Export fails closed on it.
type UnknownFieldError struct {
	Label string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field label %q: no KeePass column mapping", e.Label)
}

// Mapping is a read-only label to column lookup
type Mapping struct {
	columns map[string]Column
	dropped map[string]bool
}

var kaspersky = Mapping{
	columns: map[string]Column{
		"Application":  ColumnTitle,
		"Website name": ColumnTitle,
		"Login":        ColumnUserName,
		"Password":     ColumnPassword,
		"Website URL":  ColumnURL,
		"Comment":      ColumnNotes,
	},
	dropped: map[string]bool{
		"Login name": true,
	},
}

// Kaspersky returns the mapping for Kaspersky Password Manager text exports
func Kaspersky() Mapping {
	return kaspersky
}

// Lookup resolves a raw label. ok is false for labels that are dropped from
// the export; err is an *UnknownFieldError for labels the mapping does not know.
func (m Mapping) Lookup(label string) (col Column, ok bool, err error) {
	if col, found := m.columns[label]; found {
		return col, true, nil
	}
	if m.dropped[label] {
		return "", false, nil
	}
	return "", false, &UnknownFieldError{Label: label}
}

// IsSecret reports whether values under label end up in the Password column
func (m Mapping) IsSecret(label string) bool {
	return m.columns[label] == ColumnPassword
}

// Labels returns every label the mapping accepts, dropped ones included
func (m Mapping) Labels() []string {
	labels := make([]string, 0, len(m.columns)+len(m.dropped))
	for l := range m.columns {
		labels = append(labels, l)
	}
	for l := range m.dropped {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
