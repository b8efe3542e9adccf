// Package parser turns a Kaspersky Password Manager text export into a
// Document of categories, records and fields. The grammar is line oriented:
// a category header line, then groups of "label: value" lines separated by
// "---" delimiter lines, with blank lines allowed between any of them.
package parser
