package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/folbricht/tablesplit"
)

var verbose bool

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tablesplit",
		Short: "Splits a database table into parallel-scannable row ranges.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				tablesplit.Log.SetLevel(logrus.DebugLevel)
			}
			tablesplit.Log.SetOutput(cmd.ErrOrStderr())
			return loadConfigIfPresent()
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/tablesplit/config.json)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose logging")
	cmd.AddCommand(newSplitCommand(), newConfigCommand())
	return cmd
}

func newConfigCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show (or save) the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the effective configuration to the config file")
	return cmd
}
