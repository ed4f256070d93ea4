package models

import (
	"github.com/kubev2v/sqltoolkit/pkg/query"
)

type SelectorSummary struct {
	Content    string
	Expression bool
	// Tables holds the identifiers of the tables the fragment reads from.
	Tables []string
}

type TableSummary struct {
	Name  string
	Alias string
	// Selectors are the fragments attributed to the table.
	Selectors []string
}

type JoinSummary struct {
	TableSummary
	Kind          string
	MatchColumn   string
	PrimaryTable  string
	PrimaryColumn string
}

// QuerySummary is the fragment model of a parsed query.
type QuerySummary struct {
	SQL        string
	Primary    TableSummary
	Joins      []JoinSummary
	Columns    []SelectorSummary
	Conditions []SelectorSummary
	GroupBy    []SelectorSummary
	Subqueries []QuerySummary
}

func NewQuerySummary(q *query.SelectQuery) QuerySummary {
	s := QuerySummary{
		SQL:        q.String(),
		Columns:    newSelectorSummaries(q.Columns()),
		Conditions: newSelectorSummaries(q.Conditions()),
		GroupBy:    newSelectorSummaries(q.GroupBy()),
	}

	if primary, err := q.PrimaryTable(); err == nil {
		s.Primary = newTableSummary(q, primary)
	}

	for _, j := range q.Joins() {
		s.Joins = append(s.Joins, JoinSummary{
			TableSummary:  newTableSummary(q, &j.Table),
			Kind:          j.Kind.String(),
			MatchColumn:   j.MatchColumn,
			PrimaryTable:  j.PrimaryTable.Identifier(),
			PrimaryColumn: j.PrimaryColumn,
		})
	}

	for _, sub := range q.Subqueries() {
		s.Subqueries = append(s.Subqueries, NewQuerySummary(sub))
	}

	return s
}

func newTableSummary(q *query.SelectQuery, t *query.Table) TableSummary {
	ts := TableSummary{Name: t.Name, Alias: t.Alias}
	selectors, err := q.SelectorsFor(t.Identifier())
	if err != nil {
		return ts
	}
	for _, sel := range selectors {
		ts.Selectors = append(ts.Selectors, sel.Content())
	}
	return ts
}

func newSelectorSummaries(selectors []*query.Selector) []SelectorSummary {
	out := make([]SelectorSummary, 0, len(selectors))
	for _, sel := range selectors {
		out = append(out, SelectorSummary{
			Content:    sel.Content(),
			Expression: sel.IsExpression(),
			Tables:     sel.References(),
		})
	}
	return out
}
