// Package cmd implements the kpm2keepass command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/kpm2keepass/internal/config"
	"github.com/CaptShanks/kpm2keepass/internal/tui"
)

// app carries what the root command resolved for its subcommands
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// loadConfig reads the config file and environment and applies the theme.
// Commands call it after validating their own flags so that a usage message
// is not masked by a config error.
func (a *app) loadConfig() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", "source", cfg.Source, "output_dir", cfg.OutputDir, "theme", cfg.Theme)

	applyTheme(cfg.Theme)
	return nil
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	var verbose bool
	a := &app{
		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	root := &cobra.Command{
		Use:   "kpm2keepass",
		Short: "Convert Kaspersky Password Manager exports for KeePass",
		Long: `kpm2keepass reads the plain text export written by Kaspersky Password
Manager and writes one tab-separated table per category, ready for the
KeePass generic CSV importer.

Examples:
  kpm2keepass convert --infile export.txt
  kpm2keepass convert --infile export.txt --outdir ./tables --print=false
  kpm2keepass view --infile export.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: ./kpm2keepass.toml or ~/.config/kpm2keepass/config.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newViewCmd(a))
	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newUpgradeCmd())
	return root
}

// Execute runs the root command and reports a failure on stderr
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func applyTheme(theme config.Theme) {
	switch theme {
	case config.ThemeLight:
		tui.SetLightPalette()
	default:
		tui.SetDarkPalette()
	}
}
