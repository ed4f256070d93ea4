package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// CatalogStore reads the table names the validator plans against.
type CatalogStore struct {
	db QueryInterceptor
}

func NewCatalogStore(db QueryInterceptor) *CatalogStore {
	return &CatalogStore{db: db}
}

// Tables lists the tables of the main schema in name order.
func (s *CatalogStore) Tables(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": "main"}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
