package query

import (
	"regexp"
	"slices"
	"strings"

	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

var spaces = regexp.MustCompile(`\s+`)

// SelectQuery is the fragment model of a single SELECT statement.
//
// A SelectQuery is not safe for concurrent use. Its tables, selectors and
// subqueries are owned by it and must not be shared with other queries.
type SelectQuery struct {
	// OrderBy moves the query into a common table expression ordered by
	// this value when set.
	OrderBy string
	// HasPagination appends the OFFSET/FETCH suffix after OrderBy.
	HasPagination bool

	columns    []*Selector
	primary    *Table
	joins      []*Join
	conditions []*Selector
	groupBy    []*Selector
	// subqueries are addressed by the index of their placeholder.
	subqueries []*SelectQuery

	// err is the first error raised by a fluent mutator.
	err error
}

// Parse builds the fragment model of text. Either a fully formed query or an
// error is returned.
func Parse(text string) (q *SelectQuery, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(parseFailure); ok {
				q = nil
				err = f.err
				return
			}
			panic(r)
		}
	}()

	q = &SelectQuery{}

	src := normalize(text)
	// subqueries are parsed first so their clauses never leak into ours
	src = q.extractSubqueries(src)

	c := segment(src)
	q.parseTables(src, c.tables)
	q.parseColumns(src, c.columns)
	q.parseConditions(src, c.conditions)
	q.parseGroupBy(src, c.groupBy)

	return q, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *SelectQuery {
	q, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *SelectQuery) Columns() []*Selector {
	return slices.Clone(q.columns)
}

func (q *SelectQuery) Conditions() []*Selector {
	return slices.Clone(q.conditions)
}

func (q *SelectQuery) GroupBy() []*Selector {
	return slices.Clone(q.groupBy)
}

// Tables returns the primary table followed by the joined tables in the
// order they were added.
func (q *SelectQuery) Tables() []*Table {
	tables := make([]*Table, 0, len(q.joins)+1)
	if q.primary != nil {
		tables = append(tables, q.primary)
	}
	for _, j := range q.joins {
		tables = append(tables, &j.Table)
	}
	return tables
}

func (q *SelectQuery) Joins() []*Join {
	return slices.Clone(q.joins)
}

// Subqueries returns the extracted subqueries in placeholder order.
func (q *SelectQuery) Subqueries() []*SelectQuery {
	return slices.Clone(q.subqueries)
}

// PrimaryTable returns the only table of the query which is not a join.
func (q *SelectQuery) PrimaryTable() (*Table, error) {
	if q.primary == nil {
		return nil, srvErrors.NewPrimaryTableNotFoundError()
	}
	return q.primary, nil
}

// GetTable returns the table whose name or alias is identifier.
func (q *SelectQuery) GetTable(identifier string) (*Table, error) {
	if t := q.lookup(identifier); t != nil {
		return t, nil
	}
	return nil, srvErrors.NewLookupError(identifier)
}

// GetJoin returns the join whose name or alias is identifier.
func (q *SelectQuery) GetJoin(identifier string) (*Join, error) {
	for _, j := range q.joins {
		if j.Matches(identifier) {
			return j, nil
		}
	}
	return nil, srvErrors.NewLookupError(identifier)
}

// SelectorsFor returns the columns, conditions and group by fragments that
// read from the table named by identifier.
func (q *SelectQuery) SelectorsFor(identifier string) ([]*Selector, error) {
	t, err := q.GetTable(identifier)
	if err != nil {
		return nil, err
	}

	var selectors []*Selector
	for _, group := range [][]*Selector{q.columns, q.conditions, q.groupBy} {
		for _, s := range group {
			if slices.Contains(s.refs, t.Identifier()) {
				selectors = append(selectors, s)
			}
		}
	}
	return selectors, nil
}

// TablesOf resolves the references of s against the tables of q.
func (q *SelectQuery) TablesOf(s *Selector) []*Table {
	tables := make([]*Table, 0, len(s.refs))
	for _, ref := range s.refs {
		if t := q.lookup(ref); t != nil {
			tables = append(tables, t)
		}
	}
	return tables
}

// Err returns the first error raised by a fluent mutator.
func (q *SelectQuery) Err() error {
	return q.err
}

func (q *SelectQuery) lookup(identifier string) *Table {
	for _, t := range q.Tables() {
		if t.Matches(identifier) {
			return t
		}
	}
	return nil
}

// normalize collapses whitespace runs and drops trailing semicolons.
func normalize(text string) string {
	text = strings.TrimSpace(spaces.ReplaceAllString(text, " "))
	for strings.HasSuffix(text, ";") {
		text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
	}
	return text
}
