package server

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

func Help(c *gin.Context) {
	log.Info("Call to /help")

	c.String(http.StatusOK, `
	SamSet API:
	SAM video curation API server, version 2.0.
	`)
}
