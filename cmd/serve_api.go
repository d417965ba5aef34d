package cmd

import (
	"github.com/nsyszr/rcm/pkg/cmd/server"
	"github.com/spf13/cobra"
)

// serveAPICmd represents the serve api command
var serveAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the REST API, realtime feed and web page",
	Run:   server.RunServeAPI(c),
}

func init() {
	serveCmd.AddCommand(serveAPICmd)
}
