package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/sqltoolkit/api/v1"
	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

// ParseQuery returns the fragment model of a query
// (POST /queries/parse)
func (h *Handler) ParseQuery(c *gin.Context) {
	var req v1.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid request body: " + err.Error()})
		return
	}

	summary, err := h.querySrv.Parse(c.Request.Context(), req.Query)
	if err != nil {
		writeQueryError(c, "failed to parse query", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewQuerySummary(summary))
}

// RenderQuery augments and renders a query
// (POST /queries/render)
func (h *Handler) RenderQuery(c *gin.Context) {
	var req v1.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid request body: " + err.Error()})
		return
	}

	opts, err := req.ToModel()
	if err != nil {
		writeQueryError(c, "failed to render query", err)
		return
	}

	sql, err := h.querySrv.Render(c.Request.Context(), req.Query, opts)
	if err != nil {
		writeQueryError(c, "failed to render query", err)
		return
	}

	c.JSON(http.StatusOK, v1.RenderResponse{Sql: sql})
}

// RenderQueries renders several queries with the same augmentations
// (POST /queries/render/batch)
func (h *Handler) RenderQueries(c *gin.Context) {
	var req v1.BatchRenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid request body: " + err.Error()})
		return
	}

	opts, err := req.ToModel()
	if err != nil {
		writeQueryError(c, "failed to render queries", err)
		return
	}

	results := h.querySrv.RenderBatch(c.Request.Context(), req.Queries, opts)
	c.JSON(http.StatusOK, v1.NewBatchRenderResponse(results))
}

// writeQueryError maps query model errors to status codes.
func writeQueryError(c *gin.Context, msg string, err error) {
	switch {
	case srvErrors.IsStructuralError(err), srvErrors.IsMalformedQueryError(err), srvErrors.IsInvalidJoinKindError(err):
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
	case srvErrors.IsLookupError(err), srvErrors.IsValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, v1.Error{Error: err.Error()})
	default:
		zap.S().Named("query_handler").Errorw(msg, "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: msg})
	}
}
