package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries state shared by the subcommands.
type app struct {
	logLevel string
	log      *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "ringfx",
		Short:         "Ring-buffer audio effects for WAV files",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(cmd.ErrOrStderr(), a.logLevel)
			if err != nil {
				return err
			}

			a.log = l
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&a.logLevel, "log-level", "l", "info",
		"Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newProcessCmd(a))
	rootCmd.AddCommand(newWininfoCmd())
	return rootCmd
}
