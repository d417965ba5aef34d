package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/nsyszr/rcm/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type ConfigHandler struct {
	c *config.Config
}

func newConfigHandler(c *config.Config) *ConfigHandler {
	return &ConfigHandler{c: c}
}

// ShowConfig prints the effective configuration as YAML with connection
// string passwords masked.
func (h *ConfigHandler) ShowConfig(cmd *cobra.Command, args []string) {
	if err := h.write(os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func (h *ConfigHandler) write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(h.c.Redacted()); err != nil {
		return errors.Wrap(err, "failed to encode configuration")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to encode configuration")
	}

	if err := h.c.Validate(); err != nil {
		fmt.Fprintf(w, "# warning: %s\n", err)
	}
	return nil
}
