package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kubev2v/sqltoolkit/internal/models"
	"github.com/kubev2v/sqltoolkit/pkg/query"
)

type QueryService interface {
	Parse(ctx context.Context, text string) (models.QuerySummary, error)
	Render(ctx context.Context, text string, opts models.RenderOptions) (string, error)
	RenderBatch(ctx context.Context, texts []string, opts models.RenderOptions) []models.RenderResult
}

type CatalogService interface {
	Tables(ctx context.Context) ([]string, error)
}

type Handler struct {
	querySrv   QueryService
	catalogSrv CatalogService
}

// New returns a handler. A nil catalogSrv disables the catalog endpoint.
// It panics when the binding tags of the request models cannot be registered.
func New(querySrv QueryService, catalogSrv CatalogService) *Handler {
	if err := registerValidations(); err != nil {
		zap.S().Named("handlers").Errorw("failed to register request validations", "error", err)
		panic(err)
	}
	return &Handler{
		querySrv:   querySrv,
		catalogSrv: catalogSrv,
	}
}

// RegisterHandlers mounts every endpoint on router.
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/health", h.GetHealth)
	router.POST("/queries/parse", h.ParseQuery)
	router.POST("/queries/render", h.RenderQuery)
	router.POST("/queries/render/batch", h.RenderQueries)
	router.GET("/catalog/tables", h.GetCatalogTables)
}

// registerValidations adds the tags the request models use to gin's
// validator engine.
func registerValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unsupported validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("joinkind", validateJoinKind); err != nil {
		return fmt.Errorf("registering joinkind validation: %w", err)
	}
	return nil
}

func validateJoinKind(fl validator.FieldLevel) bool {
	_, err := query.ParseJoinKind(fl.Field().String())
	return err == nil
}
