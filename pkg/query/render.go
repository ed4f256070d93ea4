package query

import (
	"strings"

	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

const (
	innerResultsName = "InnerResults"
	paginationSuffix = " OFFSET @offsetRows ROWS FETCH NEXT @rowCount ROWS ONLY"
)

// String renders the query terminated by a semicolon. With OrderBy set the
// query becomes the InnerResults common table expression of an ordered,
// optionally paginated, outer select. Rendering never modifies q.
func (q *SelectQuery) String() string {
	var sb strings.Builder

	inner := q.InnerQuery()
	if q.OrderBy == "" {
		sb.WriteString(inner)
	} else {
		sb.WriteString("WITH " + innerResultsName + " AS (")
		sb.WriteString(inner)
		sb.WriteString(") SELECT * FROM " + innerResultsName + " ORDER BY ")
		sb.WriteString(q.OrderBy)
		if q.HasPagination {
			sb.WriteString(paginationSuffix)
		}
	}

	sb.WriteByte(';')
	return sb.String()
}

// ToSQL renders q like String but reports the error of a failed mutator,
// a missing primary table, or pagination requested without OrderBy.
func (q *SelectQuery) ToSQL() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if q.primary == nil {
		return "", srvErrors.NewPrimaryTableNotFoundError()
	}
	if q.HasPagination && q.OrderBy == "" {
		return "", srvErrors.NewStructuralError("ORDER BY")
	}
	return q.String(), nil
}

// InnerQuery renders the select without ordering, pagination or the final
// semicolon. Subquery placeholders are replaced by the subqueries' own inner
// queries.
func (q *SelectQuery) InnerQuery() string {
	var sb strings.Builder

	sb.WriteString("SELECT")
	for i, column := range q.columns {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(q.renderSelector(column))
	}

	if q.primary != nil {
		sb.WriteByte(' ')
		sb.WriteString(q.expandSubqueries(q.primary.String()))
	}
	for _, j := range q.joins {
		sb.WriteByte(' ')
		sb.WriteString(q.expandSubqueries(j.String()))
	}

	if len(q.conditions) > 0 {
		sb.WriteString(" WHERE")
		for _, condition := range q.conditions {
			sb.WriteByte(' ')
			sb.WriteString(q.renderSelector(condition))
		}
	}

	if len(q.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		for i, g := range q.groupBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(q.expandSubqueries(g.Content()))
		}
	}

	return sb.String()
}

func (q *SelectQuery) renderSelector(s *Selector) string {
	if s.IsExpression() {
		return q.expandSubqueries(s.Content())
	}
	return s.Content()
}
