package services

import (
	"context"

	"github.com/kubev2v/sqltoolkit/internal/store"
)

type CatalogService struct {
	store *store.Store
}

func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{store: st}
}

// Tables lists the tables rendered queries are validated against.
func (c *CatalogService) Tables(ctx context.Context) ([]string, error) {
	return c.store.Catalog().Tables(ctx)
}
