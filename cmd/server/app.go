package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/pbaptista/orcamentos/internal/config"
	"github.com/pbaptista/orcamentos/internal/server"
)

// NewApp assembles the full application handler. Kept separate from main so
// end-to-end tests can drive the whole stack in memory.
func NewApp(dbConn *gorm.DB, cfg config.Config) http.Handler {
	return server.New(dbConn, cfg)
}
