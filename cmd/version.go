package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version:    %s\n", c.BuildVersion)
		fmt.Printf("Git Hash:   %s\n", c.BuildHash)
		fmt.Printf("Build Time: %s\n", c.BuildTime)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
