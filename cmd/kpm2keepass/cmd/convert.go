package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/kpm2keepass/internal/export"
	"github.com/CaptShanks/kpm2keepass/internal/keepass"
	"github.com/CaptShanks/kpm2keepass/internal/parser"
	"github.com/CaptShanks/kpm2keepass/internal/tui"
)

type convertOptions struct {
	infile      string
	outdir      string
	print       bool
	showSecrets bool
	noColor     bool
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an export into one tab-separated table per category",
		Long: `Parses the export, prints a readable dump of it and writes
<Category>.csv for every category that holds at least one record.
Nothing is written when any record carries a field KeePass has no column for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.convert(cmd.OutOrStdout(), opts)
			var missing *MissingInputError
			if errors.As(err, &missing) {
				fmt.Fprintf(cmd.OutOrStdout(), "ERROR: %s\n", missing.Error())
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.infile, "infile", "i", "", "Input filename from Kaspersky PM export")
	cmd.Flags().StringVarP(&opts.outdir, "outdir", "o", "", "Directory for the tables (default from config, else current directory)")
	cmd.Flags().BoolVar(&opts.print, "print", true, "Print the parsed export to stdout")
	cmd.Flags().BoolVar(&opts.showSecrets, "show-secrets", false, "Show passwords in the printed dump")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Print without colors")
	return cmd
}

func (a *app) convert(w io.Writer, opts convertOptions) error {
	if opts.infile == "" {
		return &MissingInputError{}
	}
	if err := a.loadConfig(); err != nil {
		return err
	}
	a.logger.Info("will convert input file", "path", opts.infile)

	doc, err := readDocument(opts.infile)
	if err != nil {
		return err
	}
	a.logger.Debug("export parsed", "categories", len(doc.Categories), "records", doc.RecordCount())

	mapping := keepass.Kaspersky()
	if opts.print {
		if opts.noColor {
			tui.DisableColor()
		}
		tui.PrintDocument(w, doc, tui.PrintOptions{
			Mapping:     mapping,
			ShowSecrets: opts.showSecrets || a.cfg.ShowSecrets,
		})
	}

	dir := opts.outdir
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	paths, err := export.NewExporter(dir, mapping, a.logger).Export(doc)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", opts.infile, err)
	}
	a.logger.Info("export finished", "dir", dir, "tables", len(paths))
	return nil
}

func readDocument(path string) (*parser.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	doc, err := parser.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}
