package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/kpm2keepass/internal/keepass"
	"github.com/CaptShanks/kpm2keepass/internal/tui"
)

func newViewCmd(a *app) *cobra.Command {
	var infile string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse an export interactively",
		Long: `Opens the export in a terminal viewer with collapsible records and
fuzzy search. Passwords stay masked until toggled with 's'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if infile == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "ERROR: %s\n", (&MissingInputError{}).Error())
				return nil
			}
			if err := a.loadConfig(); err != nil {
				return err
			}
			doc, err := readDocument(infile)
			if err != nil {
				return err
			}
			a.logger.Debug("opening viewer", "path", infile, "records", doc.RecordCount())

			return tui.Run(doc, tui.Options{
				Mapping:            keepass.Kaspersky(),
				ShowSecrets:        a.cfg.ShowSecrets,
				Version:            Version,
				CheckUpdates:       !a.cfg.SkipUpdateCheck,
				UpdateIntervalDays: a.cfg.UpdateCheckIntervalDays,
			})
		},
	}

	cmd.Flags().StringVarP(&infile, "infile", "i", "", "Input filename from Kaspersky PM export")
	return cmd
}
