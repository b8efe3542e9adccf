package parser

import (
	"errors"
	"testing"
)

const sampleExport = `Websites

Website name: Example Site
Website URL: https://example.com/login
Login name: alice
Login: alice@example.com
Password: s3cret:with:colons
Comment:

---

Website name: Other
Website URL: https://other.example
Login: bob
Password: hunter2
Comment: shared account

---

Applications

Application: Mail Client
Login: alice
Password: pw
Comment:

---

Notes

`

func TestParseSample(t *testing.T) {
	doc, err := Parse(sampleExport)
	if err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if len(doc.Categories) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(doc.Categories))
	}

	names := []string{"Websites", "Applications", "Notes"}
	for i, want := range names {
		if doc.Categories[i].Name != want {
			t.Errorf("Expected category %d to be %q, got %q", i, want, doc.Categories[i].Name)
		}
	}

	websites := doc.Categories[0]
	if len(websites.Records) != 2 {
		t.Fatalf("Expected 2 website records, got %d", len(websites.Records))
	}
	if len(websites.Records[0].Fields) != 6 {
		t.Errorf("Expected 6 fields in first record, got %d", len(websites.Records[0].Fields))
	}
	if got := websites.Records[0].Fields[4]; got.Name != "Password" || got.Value != "s3cret:with:colons" {
		t.Errorf("Unexpected password field: %+v", got)
	}
	if got := websites.Records[0].Fields[5]; got.Name != "Comment" || got.Value != "" {
		t.Errorf("Expected empty comment, got %+v", got)
	}
	if websites.Records[1].Fields[4].Value != "shared account" {
		t.Errorf("Expected comment 'shared account', got %q", websites.Records[1].Fields[4].Value)
	}

	if len(doc.Categories[1].Records) != 1 {
		t.Errorf("Expected 1 application record, got %d", len(doc.Categories[1].Records))
	}
	if len(doc.Categories[2].Records) != 0 {
		t.Errorf("Expected Notes to have no records, got %d", len(doc.Categories[2].Records))
	}

	if doc.RecordCount() != 3 {
		t.Errorf("Expected 3 records in total, got %d", doc.RecordCount())
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		line      string
		wantName  string
		wantValue string
	}{
		{"Website URL: https://example.com/login\n", "Website URL", "https://example.com/login"},
		{"Login: alice", "Login", "alice"},
		{"  Website   name :  Example Site  \n", "Website name", "Example Site"},
		{"Comment:\n", "Comment", ""},
		{": orphan value\n", "", "orphan value"},
		{"Password: a:b:c\r\n", "Password", "a:b:c"},
		{"Passwörter: x\n", "Passwörter", "x"},
	}

	for _, tt := range tests {
		field, next, err := parseField(newCursor(tt.line))
		if err != nil {
			t.Errorf("parseField(%q) failed: %v", tt.line, err)
			continue
		}
		if field.Name != tt.wantName || field.Value != tt.wantValue {
			t.Errorf("parseField(%q) = {%q, %q}, want {%q, %q}",
				tt.line, field.Name, field.Value, tt.wantName, tt.wantValue)
		}
		if !next.eof() {
			t.Errorf("parseField(%q) did not consume the whole line", tt.line)
		}
	}
}

func TestParseFieldRejects(t *testing.T) {
	for _, line := range []string{
		"no colon here\n",
		"Log1n: alice\n",
		"Website-URL: x\n",
		"---\n",
	} {
		c := newCursor(line)
		_, next, err := parseField(c)
		if err == nil {
			t.Errorf("parseField(%q) should fail", line)
			continue
		}
		if next != c {
			t.Errorf("parseField(%q) moved the cursor on failure", line)
		}
	}
}

func TestParseDelimitedRecords(t *testing.T) {
	input := "Passwords\nLogin: a\nPassword: b\n---\nLogin: c\nPassword: d\n---\n"

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(doc.Categories) != 1 || doc.Categories[0].Name != "Passwords" {
		t.Fatalf("Expected one category 'Passwords', got %+v", doc.Categories)
	}

	records := doc.Categories[0].Records
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	want := [][]Field{
		{{Name: "Login", Value: "a"}, {Name: "Password", Value: "b"}},
		{{Name: "Login", Value: "c"}, {Name: "Password", Value: "d"}},
	}
	for i, rec := range records {
		if len(rec.Fields) != len(want[i]) {
			t.Fatalf("Record %d: expected %d fields, got %d", i, len(want[i]), len(rec.Fields))
		}
		for j, f := range rec.Fields {
			if f.Name != want[i][j].Name || f.Value != want[i][j].Value {
				t.Errorf("Record %d field %d = %+v, want %+v", i, j, f, want[i][j])
			}
			if f.Value == delimiter || f.Name == delimiter {
				t.Errorf("Delimiter leaked into record %d: %+v", i, f)
			}
		}
	}
}

// The record name comes from the first field's value, whatever its label.
func TestRecordNameFromFirstField(t *testing.T) {
	doc, err := Parse("Websites\nWebsite name: Example Site\nLogin: alice\n---\nLogin: bob\nWebsite name: Late Title\n---\n")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	records := doc.Categories[0].Records
	if records[0].Name != "Example Site" {
		t.Errorf("Expected record name 'Example Site', got %q", records[0].Name)
	}
	if records[1].Name != "bob" {
		t.Errorf("Expected record name 'bob' (first field value), got %q", records[1].Name)
	}
}

func TestParseEmptyCategory(t *testing.T) {
	doc, err := Parse("Passwords\nApplications\nApplication: Mail\n---\n")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(doc.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(doc.Categories))
	}
	if len(doc.Categories[0].Records) != 0 {
		t.Errorf("Expected 'Passwords' to have no records, got %d", len(doc.Categories[0].Records))
	}
	if len(doc.Categories[1].Records) != 1 {
		t.Errorf("Expected 'Applications' to have 1 record, got %d", len(doc.Categories[1].Records))
	}
}

func TestParseDropsFieldlessRecords(t *testing.T) {
	doc, err := Parse("Passwords\n---\n\n---\nLogin: a\n---\n---\n")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if got := len(doc.Categories[0].Records); got != 1 {
		t.Errorf("Expected 1 record after dropping empty runs, got %d", got)
	}
}

func TestParseWhitespaceTolerance(t *testing.T) {
	input := "\uFEFF\n\n  Passwords  \r\n\r\n  Login: a\r\n\r\nPassword: b\r\n\r\n   ---   \r\n\r\n\r\n"

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(doc.Categories) != 1 || doc.Categories[0].Name != "Passwords" {
		t.Fatalf("Unexpected categories: %+v", doc.Categories)
	}
	rec := doc.Categories[0].Records[0]
	if len(rec.Fields) != 2 || rec.Fields[1].Value != "b" {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if rec.Line != 5 {
		t.Errorf("Expected record to start on line 5, got %d", rec.Line)
	}
}

func TestParseTrailingRecordWithoutDelimiter(t *testing.T) {
	doc, err := Parse("Passwords\nLogin: a\nPassword: b")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if got := len(doc.Categories[0].Records); got != 1 {
		t.Errorf("Expected 1 record, got %d", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n", "  \n\t\n"} {
		doc, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", input, err)
			continue
		}
		if len(doc.Categories) != 0 {
			t.Errorf("Parse(%q): expected no categories, got %d", input, len(doc.Categories))
		}
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLine   int
		wantColumn int
		wantOffset int
	}{
		{"digits in header", "Pass123\n", 1, 5, 4},
		{"punctuation in header", "Passwords\nLogin: a\n---\nWeb sites!\n", 4, 4, 26},
		{"missing colon inside record", "Passwords\nLogin: a\nbad line\n---\n", 3, 9, 27},
		{"digit in first label", "Passwords\nLog1n: a\n---\n", 2, 4, 13},
		{"header without delimiter", "Passwords\nLogin: a\nApplications\n", 3, 13, 31},
	}

	for _, tt := range tests {
		doc, err := Parse(tt.input)
		if err == nil {
			t.Errorf("%s: expected error, got %d categories", tt.name, len(doc.Categories))
			continue
		}
		if doc != nil {
			t.Errorf("%s: expected no document on failure", tt.name)
		}

		var malformed *MalformedInputError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedInputError, got %T", tt.name, err)
			continue
		}
		if malformed.Line != tt.wantLine || malformed.Column != tt.wantColumn || malformed.Offset != tt.wantOffset {
			t.Errorf("%s: got line %d column %d offset %d, want line %d column %d offset %d",
				tt.name, malformed.Line, malformed.Column, malformed.Offset,
				tt.wantLine, tt.wantColumn, tt.wantOffset)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	first, err := Parse(sampleExport)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	second, err := Parse(sampleExport)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if !first.Equal(second) {
		t.Error("Parsing the same input twice produced different documents")
	}
}
