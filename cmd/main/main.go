package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sheetops/internal/config"
)

// app is the state shared by all subcommands, filled in before any of them
// runs.
type app struct {
	configFile string
	cfg        config.Config
	logger     zerolog.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "sheetops",
		Short: "Edit spreadsheets with plain commands and map portal rows onto a catalogue",
		Long: `sheetops serves the spreadsheet editing and mapping tools over HTTP
(the default) and runs them directly on local files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.SetupLogger(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newEditCommand(a))
	cmd.AddCommand(newMapCommand(a))
	return cmd
}
