package query

import (
	"strings"

	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

// Operator chains a condition to the ones before it.
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

type conditionOptions struct {
	operator   Operator
	expression bool
}

type ConditionOption func(*conditionOptions)

// WithOperator chains the condition with op instead of AND.
func WithOperator(op Operator) ConditionOption {
	return func(o *conditionOptions) {
		o.operator = op
	}
}

// AsExpression renders the condition verbatim, without identifier resolution.
func AsExpression() ConditionOption {
	return func(o *conditionOptions) {
		o.expression = true
	}
}

// The mutators below return q so calls can be chained. The first failure is
// kept in q (see Err and ToSQL) and turns every later mutator into a no-op.

// AddColumns appends projected columns.
func (q *SelectQuery) AddColumns(columns ...string) *SelectQuery {
	return q.mutate(func() {
		for _, column := range columns {
			text := q.extractSubqueries(normalize(column))
			q.columns = append(q.columns, q.newSelector(text, hasParentheses(text)))
		}
	})
}

// AddSubQueryAsColumn projects subquery under the column name alias.
func (q *SelectQuery) AddSubQueryAsColumn(subquery, alias string) *SelectQuery {
	return q.mutate(func() {
		text := normalize(subquery)
		if !strings.HasPrefix(text, "(") {
			text = "(" + text + ")"
		}
		text = q.extractSubqueries(text)
		q.columns = append(q.columns, q.newSelector(text+" AS "+alias, true))
	})
}

// AddCondition appends a condition. Conditions after the first are prefixed
// with their operator, AND unless WithOperator says otherwise.
func (q *SelectQuery) AddCondition(condition string, opts ...ConditionOption) *SelectQuery {
	o := conditionOptions{operator: OperatorAnd}
	for _, opt := range opts {
		opt(&o)
	}

	return q.mutate(func() {
		text := q.extractSubqueries(normalize(condition))
		if len(q.conditions) > 0 {
			text = string(o.operator) + " " + text
		}
		q.conditions = append(q.conditions, q.newSelector(text, o.expression || hasParentheses(text)))
	})
}

// AddGroupBy appends group by columns.
func (q *SelectQuery) AddGroupBy(columns ...string) *SelectQuery {
	return q.mutate(func() {
		for _, column := range columns {
			q.groupBy = append(q.groupBy, q.newSelector(q.extractSubqueries(normalize(column)), false))
		}
	})
}

// AddJoin joins table, written "name [alias]", to the primary table on
// matchColumn of both sides.
func (q *SelectQuery) AddJoin(kind JoinKind, table, matchColumn string) *SelectQuery {
	return q.mutate(func() {
		primary, err := q.PrimaryTable()
		if err != nil {
			fail(err)
		}
		q.addJoin(kind, table, matchColumn, primary, matchColumn)
	})
}

// AddJoinTo joins table to the registered table named primaryTable.
// An empty primaryColumn defaults to matchColumn.
func (q *SelectQuery) AddJoinTo(kind JoinKind, table, matchColumn, primaryTable, primaryColumn string) *SelectQuery {
	if primaryColumn == "" {
		primaryColumn = matchColumn
	}

	return q.mutate(func() {
		if q.primary == nil {
			fail(srvErrors.NewPrimaryTableNotFoundError())
		}
		primary, err := q.GetTable(primaryTable)
		if err != nil {
			fail(err)
		}
		q.addJoin(kind, table, matchColumn, primary, primaryColumn)
	})
}

func (q *SelectQuery) addJoin(kind JoinKind, table, matchColumn string, primary *Table, primaryColumn string) {
	t := newTableFromText(table)
	if t.Name == "" {
		fail(srvErrors.NewStructuralError("JOIN table"))
	}
	if !t.HasAlias() && q.primary.HasAlias() {
		t.Alias = q.generateAlias(t.Name)
	}

	q.joins = append(q.joins, &Join{
		Table:         *t,
		Kind:          kind,
		MatchColumn:   matchColumn,
		PrimaryTable:  primary,
		PrimaryColumn: primaryColumn,
	})
}

// mutate runs fn unless a previous mutator failed.
func (q *SelectQuery) mutate(fn func()) *SelectQuery {
	if q.err == nil {
		q.run(fn)
	}
	return q
}

// run records the failure of fn in q. Nothing fn appended survives a failure.
func (q *SelectQuery) run(fn func()) {
	snapshot := *q
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(parseFailure)
			if !ok {
				panic(r)
			}
			*q = snapshot
			q.err = f.err
		}
	}()

	fn()
}
