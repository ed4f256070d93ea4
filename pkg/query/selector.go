package query

import (
	"regexp"
	"slices"
	"strings"
)

// qualifiedName matches "qualifier.column" tokens. The qualifier may carry a
// schema ("dbo.Orders.Id").
var qualifiedName = regexp.MustCompile(`\b\w+(?:\.\w+)*\.\w+\b`)

// Selector is a column, condition or group by fragment of a query.
type Selector struct {
	content    string
	expression bool
	// refs holds the identifiers of the tables the fragment reads from.
	// The owning query resolves them, see SelectQuery.TablesOf.
	refs []string
}

func (s *Selector) Content() string {
	return s.content
}

// IsExpression is true for fragments carrying a parenthesized call or a
// subquery. Expressions are rendered verbatim and never identifier-resolved.
func (s *Selector) IsExpression() bool {
	return s.expression
}

// References returns the identifiers of the tables the fragment reads from.
func (s *Selector) References() []string {
	return slices.Clone(s.refs)
}

func (s *Selector) String() string {
	return s.content
}

func (s *Selector) reference(identifier string) {
	if !slices.Contains(s.refs, identifier) {
		s.refs = append(s.refs, identifier)
	}
}

// newSelector builds a fragment of q. Non-expression fragments have their
// qualified names matched against the tables of q; matches are recorded as
// references and, when the primary table is aliased, rewritten to use the
// matched table's identifier.
func (q *SelectQuery) newSelector(content string, expression bool) *Selector {
	s := &Selector{content: strings.TrimSpace(content), expression: expression}
	if !expression {
		q.resolveIdentifiers(s)
	}
	return s
}

func (q *SelectQuery) resolveIdentifiers(s *Selector) {
	rewrite := q.primary != nil && q.primary.HasAlias()

	s.content = qualifiedName.ReplaceAllStringFunc(s.content, func(name string) string {
		idx := strings.LastIndexByte(name, '.')
		qualifier, column := name[:idx], name[idx+1:]

		t := q.lookup(qualifier)
		if t == nil {
			return name
		}
		s.reference(t.Identifier())
		if rewrite {
			return t.Identifier() + "." + column
		}
		return name
	})

	// unqualified fragments belong to the primary table
	if len(s.refs) == 0 && q.primary != nil {
		s.reference(q.primary.Identifier())
	}
}

func hasParentheses(text string) bool {
	return strings.Contains(text, "(") && strings.Contains(text, ")")
}
