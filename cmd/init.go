package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/contact-draft/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize contactdraft configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the model, recipient and retry settings, and writes them to the config file (.contactdraft.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
