package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/kpm2keepass/internal/updater"
)

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade kpm2keepass to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, hasUpdate, err := updater.CheckLatest(Version)
			if err != nil {
				fmt.Fprintln(out, updater.CurlFallbackMessage(err))
				return fmt.Errorf("failed to check for updates: %w", err)
			}
			if !hasUpdate {
				fmt.Fprintln(out, "Already up to date.")
				return nil
			}

			newVer, err := updater.Upgrade(Version)
			if err != nil {
				fmt.Fprintln(out, updater.CurlFallbackMessage(err))
				return fmt.Errorf("upgrade failed: %w", err)
			}
			fmt.Fprintf(out, "Upgraded to v%s.\n", newVer)
			return nil
		},
	}
}
