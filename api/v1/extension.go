package v1

import (
	"strings"

	"github.com/kubev2v/sqltoolkit/internal/models"
	"github.com/kubev2v/sqltoolkit/pkg/query"
)

// NewQuerySummary converts a models.QuerySummary to an API QuerySummary.
func NewQuerySummary(m models.QuerySummary) QuerySummary {
	s := QuerySummary{
		Sql:        m.SQL,
		Primary:    newTable(m.Primary),
		Joins:      make([]JoinedTable, 0, len(m.Joins)),
		Columns:    newSelectors(m.Columns),
		Conditions: newSelectors(m.Conditions),
		GroupBy:    newSelectors(m.GroupBy),
		Subqueries: make([]QuerySummary, 0, len(m.Subqueries)),
	}

	for _, j := range m.Joins {
		s.Joins = append(s.Joins, JoinedTable{
			Table:         newTable(j.TableSummary),
			Kind:          j.Kind,
			MatchColumn:   j.MatchColumn,
			PrimaryTable:  j.PrimaryTable,
			PrimaryColumn: j.PrimaryColumn,
		})
	}

	for _, sub := range m.Subqueries {
		s.Subqueries = append(s.Subqueries, NewQuerySummary(sub))
	}

	return s
}

func newTable(t models.TableSummary) Table {
	table := Table{Name: t.Name, Selectors: []string{}}
	if t.Alias != "" {
		alias := t.Alias
		table.Alias = &alias
	}
	table.Selectors = append(table.Selectors, t.Selectors...)
	return table
}

func newSelectors(selectors []models.SelectorSummary) []Selector {
	out := make([]Selector, 0, len(selectors))
	for _, s := range selectors {
		tables := []string{}
		out = append(out, Selector{
			Content:    s.Content,
			Expression: s.Expression,
			Tables:     append(tables, s.Tables...),
		})
	}
	return out
}

// ToModel converts the request options to models.RenderOptions. Join kinds
// are parsed strictly.
func (o RenderOptions) ToModel() (models.RenderOptions, error) {
	m := models.RenderOptions{
		OrderBy:  o.OrderBy,
		Paginate: o.Paginate,
		Validate: o.Validate,
		Columns:  o.Columns,
		GroupBy:  o.GroupBy,
	}

	for _, j := range o.Joins {
		kind, err := query.ParseJoinKind(j.Kind)
		if err != nil {
			return models.RenderOptions{}, err
		}
		m.Joins = append(m.Joins, models.Join{
			Kind:          kind,
			Table:         j.Table,
			MatchColumn:   j.MatchColumn,
			PrimaryTable:  j.PrimaryTable,
			PrimaryColumn: j.PrimaryColumn,
		})
	}

	for _, c := range o.SubqueryColumns {
		m.SubqueryColumns = append(m.SubqueryColumns, models.SubqueryColumn{Query: c.Query, Alias: c.Alias})
	}

	for _, c := range o.Conditions {
		m.Conditions = append(m.Conditions, models.Condition{
			Text:       c.Text,
			Operator:   query.Operator(strings.ToUpper(c.Operator)),
			Expression: c.Expression,
		})
	}

	return m, nil
}

// NewBatchRenderResponse converts batch results, keeping their order.
func NewBatchRenderResponse(results []models.RenderResult) BatchRenderResponse {
	resp := BatchRenderResponse{Results: make([]BatchRenderItem, 0, len(results))}
	for _, r := range results {
		var item BatchRenderItem
		if r.Err != nil {
			e := r.Err.Error()
			item.Error = &e
		} else {
			sql := r.SQL
			item.Sql = &sql
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}
