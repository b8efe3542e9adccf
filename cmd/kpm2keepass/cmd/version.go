package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/kpm2keepass/internal/updater"
)

var (
	Version   = "0.1.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version and check for updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kpm2keepass v%s\n", Version)
			fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)

			if a.cfg.SkipUpdateCheck {
				return nil
			}
			latest, hasUpdate, err := updater.CheckLatest(Version)
			if err != nil {
				a.logger.Debug("update check failed", "error", err)
				return nil
			}
			if hasUpdate {
				fmt.Fprintf(out, "\nUpdate available: v%s. Run 'kpm2keepass upgrade' to update.\n", latest)
			}
			return nil
		},
	}
}
