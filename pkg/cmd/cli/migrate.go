package cli

import (
	"fmt"
	"os"

	colorable "github.com/mattn/go-colorable"
	"github.com/nsyszr/rcm/config"
	"github.com/nsyszr/rcm/pkg/storage/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type MigrateHandler struct {
	c *config.Config
}

func newMigrateHandler(c *config.Config) *MigrateHandler {
	return &MigrateHandler{c: c}
}

// getDatabaseURL returns the argument at position, falling back to the
// configured database url.
func (h *MigrateHandler) getDatabaseURL(cmd *cobra.Command, args []string, position int) (url string) {
	if len(args) > position {
		url = args[position]
	}
	if url == "" {
		url = h.c.DatabaseURL
	}
	if url == "" {
		fmt.Println(cmd.UsageString())
	}
	return
}

func (h *MigrateHandler) MigrateSQL(cmd *cobra.Command, args []string) {
	url := h.getDatabaseURL(cmd, args, 0)
	if url == "" {
		os.Exit(2) // Return missing keyword or command
	}

	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})
	log.SetOutput(colorable.NewColorableStdout())

	log.Info("Applying SQL migration...")

	db, err := postgres.OpenDB(url)
	if err != nil {
		log.Errorf("An error occurred while connecting to SQL: %s", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Errorf("An error occurred while connecting to SQL: %s", err)
		os.Exit(1)
	}

	n, err := postgres.Migrate(db)
	if err != nil {
		log.Errorf("An error occurred while running the migrations: %s", err)
		os.Exit(1)
	}
	log.Infof("Migration successful! Applied a total of %d migrations.", n)
}
