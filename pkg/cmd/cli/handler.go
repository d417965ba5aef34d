package cli

import "github.com/nsyszr/rcm/config"

type Handler struct {
	Migration *MigrateHandler
	Config    *ConfigHandler
}

func NewHandler(c *config.Config) *Handler {
	return &Handler{
		Migration: newMigrateHandler(c),
		Config:    newConfigHandler(c),
	}
}
