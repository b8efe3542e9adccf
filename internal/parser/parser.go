package parser

import (
	"strings"
	"unicode"
)

// Field is a single "label: value" line of a record
type Field struct {
	Name  string
	Value string
	Line  int
}

// Record is one stored credential
type Record struct {
	// Name is the value of the first field, not a dedicated title line.
	Name   string
	Fields []Field
	Line   int
}

// Category groups the records listed under one header line
type Category struct {
	Name    string
	Records []Record
	Line    int
}

// Document is the parsed export, categories in source order
type Document struct {
	Categories []Category
}

// RecordCount returns the number of records across all categories
func (d *Document) RecordCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Records)
	}
	return n
}

// Equal reports whether two documents have the same structure and content.
// Source line numbers are not compared.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if len(d.Categories) != len(other.Categories) {
		return false
	}
	for i, c := range d.Categories {
		o := other.Categories[i]
		if c.Name != o.Name || len(c.Records) != len(o.Records) {
			return false
		}
		for j, r := range c.Records {
			if !r.equal(o.Records[j]) {
				return false
			}
		}
	}
	return true
}

func (r Record) equal(o Record) bool {
	if r.Name != o.Name || len(r.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range r.Fields {
		if f.Name != o.Fields[i].Name || f.Value != o.Fields[i].Value {
			return false
		}
	}
	return true
}

// Parse parses a complete export. Either the whole input matches the grammar
// or a *MalformedInputError is returned; there is no partial result.
func Parse(input string) (*Document, error) {
	doc := &Document{}

	c := skipBlank(newCursor(input))
	for !c.eof() {
		cat, next, err := parseCategory(c)
		if err != nil {
			return nil, err
		}
		doc.Categories = append(doc.Categories, cat)
		c = skipBlank(next)
	}

	return doc, nil
}

// parseCategory parses a header line and every record that follows it
func parseCategory(c cursor) (Category, cursor, error) {
	line := c.line
	name, c, err := parseCategoryHeader(c)
	if err != nil {
		return Category{}, c, err
	}
	cat := Category{Name: name, Line: line}

	for {
		rec, next, err := parseRecord(c)
		if err != nil {
			return Category{}, next, err
		}
		c = next
		if rec == nil {
			break
		}
		// A delimiter with no fields before it is not a credential
		if len(rec.Fields) == 0 {
			continue
		}
		cat.Records = append(cat.Records, *rec)
	}

	return cat, c, nil
}

// parseCategoryHeader matches a line holding exactly one alphabetic word
func parseCategoryHeader(c cursor) (string, cursor, error) {
	text, next := c.nextLine()

	start := len(text) - len(strings.TrimLeft(text, " \t"))
	word := strings.TrimRight(text[start:], " \t")
	if word == "" {
		return "", c, c.fail(start, text, "expected category header")
	}
	for i, r := range word {
		if !unicode.IsLetter(r) {
			return "", c, c.fail(start+i, text, "expected category header, field line or record delimiter")
		}
	}

	return word, next, nil
}

// parseRecord consumes leading blank lines, a run of field lines and the
// delimiter that closes it. A nil record means no record starts at c; the
// returned cursor then points past the skipped blank lines. A record with no
// fields is returned for a bare delimiter so the caller can drop it.
func parseRecord(c cursor) (*Record, cursor, error) {
	c = skipBlank(c)
	if c.eof() {
		return nil, c, nil
	}

	rec := &Record{Line: c.line}
	for !c.eof() {
		text, next := c.nextLine()
		if isBlank(text) {
			c = next
			continue
		}
		if isDelimiter(text) {
			return rec, skipBlank(next), nil
		}

		field, next, err := parseField(c)
		if err != nil {
			if len(rec.Fields) == 0 {
				return nil, c, nil
			}
			err.Reason = "expected field line or record delimiter: " + err.Reason
			return nil, c, err
		}
		if len(rec.Fields) == 0 {
			rec.Name = strings.TrimSpace(field.Value)
		}
		rec.Fields = append(rec.Fields, field)
		c = next
	}

	// Input ended without a closing delimiter
	return rec, c, nil
}

// parseField matches "<label>: <value>" where the label is zero or more
// alphabetic words. The value is everything after the first colon.
func parseField(c cursor) (Field, cursor, *MalformedInputError) {
	text, next := c.nextLine()

	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		return Field{}, c, c.fail(len(text), text, "missing ':' in field line")
	}
	label := text[:colon]
	for i, r := range label {
		if r != ' ' && r != '\t' && !unicode.IsLetter(r) {
			return Field{}, c, c.fail(i, text, "field label must contain only letters")
		}
	}

	return Field{
		Name:  strings.Join(strings.Fields(label), " "),
		Value: strings.TrimSpace(text[colon+1:]),
		Line:  c.line,
	}, next, nil
}

func isBlank(line string) bool {
	return strings.Trim(line, " \t") == ""
}

func isDelimiter(line string) bool {
	return strings.Trim(line, " \t") == delimiter
}
