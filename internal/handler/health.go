package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	db *sqlx.DB
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{"status": "healthy"}))
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse("NOT_READY", "database unreachable"))
		return
	}
	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{"status": "ready"}))
}
