package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/sqltoolkit/api/v1"
)

// GetHealth reports the server is up
// (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, v1.Health{Status: "ok"})
}

// GetCatalogTables lists the tables queries are validated against
// (GET /catalog/tables)
func (h *Handler) GetCatalogTables(c *gin.Context) {
	if h.catalogSrv == nil {
		c.JSON(http.StatusNotFound, v1.Error{Error: "catalog is not configured"})
		return
	}

	tables, err := h.catalogSrv.Tables(c.Request.Context())
	if err != nil {
		zap.S().Named("catalog_handler").Errorw("failed to list tables", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to list tables"})
		return
	}

	c.JSON(http.StatusOK, v1.CatalogTables{Tables: tables})
}
