package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// SelectBuilder converts q into a squirrel builder so callers can bind their
// own Limit and Offset instead of the OFFSET/FETCH suffix of String. The
// conditions are kept together in one WHERE part because every condition
// after the first already carries its operator.
func (q *SelectQuery) SelectBuilder() (sq.SelectBuilder, error) {
	if q.err != nil {
		return sq.SelectBuilder{}, q.err
	}
	primary, err := q.PrimaryTable()
	if err != nil {
		return sq.SelectBuilder{}, err
	}

	columns := make([]string, 0, len(q.columns))
	for _, c := range q.columns {
		columns = append(columns, q.renderSelector(c))
	}

	from := strings.TrimPrefix(q.expandSubqueries(primary.String()), "FROM ")
	builder := sq.Select(columns...).From(from)

	for _, j := range q.joins {
		builder = builder.JoinClause(q.expandSubqueries(j.String()))
	}

	if len(q.conditions) > 0 {
		parts := make([]string, 0, len(q.conditions))
		for _, c := range q.conditions {
			parts = append(parts, q.renderSelector(c))
		}
		builder = builder.Where(strings.Join(parts, " "))
	}

	if len(q.groupBy) > 0 {
		groupBy := make([]string, 0, len(q.groupBy))
		for _, g := range q.groupBy {
			groupBy = append(groupBy, q.expandSubqueries(g.Content()))
		}
		builder = builder.GroupBy(groupBy...)
	}

	if q.OrderBy != "" {
		builder = builder.OrderBy(q.OrderBy)
	}

	return builder, nil
}
