package cmd

import "github.com/spf13/cobra"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Run:   cmdHandler.Config.ShowConfig,
}

func init() {
	RootCmd.AddCommand(configCmd)
}
