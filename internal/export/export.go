package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CaptShanks/kpm2keepass/internal/keepass"
	"github.com/CaptShanks/kpm2keepass/internal/parser"
)

// Separator is the field separator of every written table
const Separator = '\t'

// FileExt is appended to the category name to form the output file name
const FileExt = ".csv"

// Exporter writes one table file per non-empty category
type Exporter struct {
	dir     string
	mapping keepass.Mapping
	logger  *slog.Logger
}

// NewExporter creates an exporter writing into dir. A nil logger discards logs.
func NewExporter(dir string, mapping keepass.Mapping, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exporter{dir: dir, mapping: mapping, logger: logger}
}

// Tables builds the tables for every category that has records and at least
// one importable column. It fails on the first unmapped label.
func (e *Exporter) Tables(doc *parser.Document) ([]*Table, error) {
	var tables []*Table
	for _, cat := range doc.Categories {
		if len(cat.Records) == 0 {
			e.logger.Debug("skipping empty category", "category", cat.Name)
			continue
		}
		t, err := BuildTable(cat, e.mapping)
		if err != nil {
			return nil, err
		}
		// Only dropped labels in the first record leave nothing to import
		if len(t.Header) == 0 {
			e.logger.Warn("skipping category without importable columns", "category", cat.Name)
			continue
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Export builds all tables before touching the filesystem, so an unmapped
// label anywhere means no file is written. Returns the written paths.
func (e *Exporter) Export(doc *parser.Document) ([]string, error) {
	tables, err := e.Tables(doc)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(e.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make(map[string]bool)
	var paths []string
	for _, t := range tables {
		path := filepath.Join(e.dir, t.Category+FileExt)
		if written[path] {
			e.logger.Warn("category appears more than once, overwriting previous table",
				"category", t.Category, "path", path)
		}
		if err := writeFile(path, t); err != nil {
			return paths, err
		}
		if !written[path] {
			paths = append(paths, path)
		}
		written[path] = true
		e.logger.Info("table written", "category", t.Category, "rows", len(t.Rows), "path", path)
	}

	return paths, nil
}

func writeFile(path string, t *Table) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := WriteTable(f, t); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteTable writes the header row followed by every record row
func WriteTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	cw.UseCRLF = true

	header := make([]string, len(t.Header))
	for i, col := range t.Header {
		header[i] = string(col)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
