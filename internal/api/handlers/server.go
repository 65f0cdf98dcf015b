package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/posdesk/printd/internal/db"
)

type ServerHandler struct {
	settings *db.SettingsStore
	version  string
}

func NewServerHandler(settings *db.SettingsStore, version string) *ServerHandler {
	return &ServerHandler{settings: settings, version: version}
}

func (h *ServerHandler) Info(c *gin.Context) {
	id, err := h.settings.ServerID(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "settings_error",
			Message: "Failed to resolve server identity",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"serverId": id,
		"version":  h.version,
	})
}

func (h *ServerHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
