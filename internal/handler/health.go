package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealth はGET /health のハンドラー。
func (h *PortalHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
