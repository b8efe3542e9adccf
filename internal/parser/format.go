package parser

import "strings"

// Format renders a document back into the export grammar. For any document
// produced by Parse, Parse(Format(doc)) yields an equal document.
func Format(doc *Document) string {
	var b strings.Builder

	for i, cat := range doc.Categories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(cat.Name)
		b.WriteString("\n\n")

		for _, rec := range cat.Records {
			for _, f := range rec.Fields {
				b.WriteString(f.Name)
				b.WriteString(": ")
				b.WriteString(f.Value)
				b.WriteString("\n")
			}
			b.WriteString("\n")
			b.WriteString(delimiter)
			b.WriteString("\n\n")
		}
	}

	return b.String()
}
