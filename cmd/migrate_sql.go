package cmd

import (
	"github.com/spf13/cobra"
)

// migrateSQLCmd represents the migrate sql command
var migrateSQLCmd = &cobra.Command{
	Use:   "sql [database-url]",
	Short: "Create SQL schemas and apply migration plans",
	Long:  "Applies the embedded PostgreSQL migrations. Without an argument DATABASE_URL is used.",
	Args:  cobra.MaximumNArgs(1),
	Run:   cmdHandler.Migration.MigrateSQL,
}

func init() {
	migrateCmd.AddCommand(migrateSQLCmd)
}
