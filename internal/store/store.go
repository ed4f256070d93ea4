package store

import "database/sql"

// Store provides access to the DuckDB backed repositories.
type Store struct {
	db        *sql.DB
	validator *Validator
	catalog   *CatalogStore
}

func NewStore(db *sql.DB) *Store {
	qi := newQueryInterceptor(db)
	return &Store{
		db:        db,
		validator: NewValidator(qi),
		catalog:   NewCatalogStore(qi),
	}
}

func (s *Store) Validator() *Validator {
	return s.validator
}

func (s *Store) Catalog() *CatalogStore {
	return s.catalog
}

func (s *Store) Close() error {
	return s.db.Close()
}
