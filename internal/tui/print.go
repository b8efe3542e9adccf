package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/CaptShanks/kpm2keepass/internal/keepass"
	"github.com/CaptShanks/kpm2keepass/internal/parser"
)

const secretMask = "••••••••"

func init() {
	// Force color output even when not a TTY (for piping)
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// DisableColor renders every style as plain text
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PrintOptions controls what PrintDocument reveals
type PrintOptions struct {
	Mapping     keepass.Mapping
	ShowSecrets bool
}

// PrintDocument writes a readable dump of every category, record and field
func PrintDocument(w io.Writer, doc *parser.Document, opts PrintOptions) {
	fmt.Fprintln(w, headerStyle.Render("🔑 kpm2keepass - Kaspersky Password Manager export"))
	fmt.Fprintln(w, summaryStyle.Render(documentSummary(doc)))
	fmt.Fprintln(w)

	for _, cat := range doc.Categories {
		printCategory(w, cat, opts)
		fmt.Fprintln(w)
	}
}

func documentSummary(doc *parser.Document) string {
	return fmt.Sprintf("%s, %s",
		plural(len(doc.Categories), "category", "categories"),
		plural(doc.RecordCount(), "record", "records"))
}

func printCategory(w io.Writer, cat parser.Category, opts PrintOptions) {
	if len(cat.Records) == 0 {
		fmt.Fprintf(w, "%s %s\n", categoryStyle.Render(cat.Name), mutedStyle.Render("(empty, no table)"))
		return
	}

	fmt.Fprintf(w, "%s %s\n", categoryStyle.Render(cat.Name),
		mutedStyle.Render("("+plural(len(cat.Records), "record", "records")+")"))

	for _, rec := range cat.Records {
		fmt.Fprintf(w, "  %s\n", recordStyle.Render(recordTitle(rec)))
		width := labelWidth(rec.Fields)
		for _, f := range rec.Fields {
			fmt.Fprintf(w, "    %s  %s\n",
				labelStyle.Render(padRight(f.Name, width)),
				renderValue(f, opts.Mapping, opts.ShowSecrets))
		}
	}
}

// renderValue styles a field value, masking secrets unless show is set
func renderValue(f parser.Field, m keepass.Mapping, show bool) string {
	if f.Value == "" {
		return mutedStyle.Render("-")
	}
	if m.IsSecret(f.Name) {
		if !show {
			return secretStyle.Render(secretMask)
		}
		return secretStyle.Render(f.Value)
	}
	if col, ok, _ := m.Lookup(f.Name); ok && col == keepass.ColumnURL {
		return urlStyle.Render(f.Value)
	}
	return valueStyle.Render(f.Value)
}

func recordTitle(rec parser.Record) string {
	if rec.Name == "" {
		return "(untitled)"
	}
	return rec.Name
}

func labelWidth(fields []parser.Field) int {
	width := 0
	for _, f := range fields {
		if n := lipgloss.Width(f.Name); n > width {
			width = n
		}
	}
	return width
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
