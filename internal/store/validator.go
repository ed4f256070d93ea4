package store

import (
	"context"
	"strings"

	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

// paginationBindings are the T-SQL style parameters of a paginated render.
// DuckDB has no @name parameters, so such queries are never sent.
var paginationBindings = []string{"@offsetRows", "@rowCount"}

// Validator checks rendered queries by planning them against the database.
type Validator struct {
	db QueryInterceptor
}

func NewValidator(db QueryInterceptor) *Validator {
	return &Validator{db: db}
}

// Validate runs EXPLAIN for sql. The query is planned, never executed.
func (v *Validator) Validate(ctx context.Context, sql string) error {
	sql = strings.TrimSuffix(strings.TrimSpace(sql), ";")

	for _, binding := range paginationBindings {
		if strings.Contains(sql, binding) {
			return srvErrors.NewPaginationNotValidatableError()
		}
	}

	rows, err := v.db.QueryContext(ctx, "EXPLAIN "+sql)
	if err != nil {
		return srvErrors.NewValidationError(err.Error())
	}
	defer rows.Close()

	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return srvErrors.NewValidationError(err.Error())
	}
	return nil
}
