package query

import (
	"slices"
	"strconv"
	"strings"

	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

// parseFailure carries an error out of the recursive parsing helpers. Parse
// and the fluent mutators recover it; any other panic is a bug and is
// re-raised.
type parseFailure struct {
	err error
}

func fail(err error) {
	panic(parseFailure{err: err})
}

func malformed(pos int, format string, args ...any) error {
	return srvErrors.NewMalformedQueryError(pos, format, args...)
}

// clause is a top level section of the query text.
type clause struct {
	start, end int
	tokens     []token
}

type clauses struct {
	columns    *clause
	tables     *clause
	conditions *clause
	groupBy    *clause
}

const (
	inColumns = iota
	inTables
	inConditions
	inGroupBy
	inTail
)

// segment finds the top level clause boundaries of src in one pass. Keywords
// inside brackets never open a clause. ORDER BY and LIMIT end the last
// clause and everything after them is dropped.
func segment(src string) clauses {
	toks := tokenize(src)
	if len(toks) == 0 || toks[0].tok != kwSelect {
		fail(srvErrors.NewStructuralError("SELECT"))
	}

	var c clauses
	state := inColumns
	current := &clause{start: toks[0].pos + len(toks[0].val)}
	c.columns = current

	open := func(next int, start int) *clause {
		state = next
		current = &clause{start: start}
		return current
	}
	closeAt := func(end int) {
		if current != nil {
			current.end = end
		}
		current = nil
	}

	depth := 0
	for i := 1; i < len(toks); i++ {
		t := toks[i]

		switch t.tok {
		case lbracket:
			depth++
		case rbracket:
			depth--
			if depth < 0 {
				fail(malformed(t.pos, "unexpected ')'"))
			}
		}

		if depth == 0 && state != inTail {
			switch t.tok {
			case kwFrom:
				if state != inColumns {
					fail(malformed(t.pos, "unexpected FROM"))
				}
				closeAt(t.pos)
				c.tables = open(inTables, t.pos+len(t.val))
				continue
			case kwWhere:
				if state != inTables {
					fail(malformed(t.pos, "unexpected WHERE"))
				}
				closeAt(t.pos)
				c.conditions = open(inConditions, t.pos+len(t.val))
				continue
			case kwGroup:
				if next, ok := followedBy(toks, i, kwBy); ok {
					if state != inTables && state != inConditions {
						fail(malformed(t.pos, "unexpected GROUP BY"))
					}
					closeAt(t.pos)
					c.groupBy = open(inGroupBy, next.pos+len(next.val))
					i++
					continue
				}
			case kwOrder, kwLimit:
				_, byFollows := followedBy(toks, i, kwBy)
				if t.tok == kwLimit || byFollows {
					if state == inColumns {
						fail(malformed(t.pos, "unexpected %s", t.tok))
					}
					closeAt(t.pos)
					state = inTail
					continue
				}
			}
		}

		if current != nil {
			current.tokens = append(current.tokens, t)
		}
	}

	if depth != 0 {
		fail(malformed(len(src), "unbalanced parentheses"))
	}
	closeAt(len(src))

	if c.tables == nil {
		fail(srvErrors.NewMissingFromClauseError())
	}
	return c
}

func followedBy(toks []token, i int, tok Token) (token, bool) {
	if i+1 < len(toks) && toks[i+1].tok == tok {
		return toks[i+1], true
	}
	return token{}, false
}

// parseColumns splits the column clause on top level commas.
func (q *SelectQuery) parseColumns(src string, c *clause) {
	if c == nil {
		return
	}
	for _, fragment := range splitOnCommas(src, c) {
		q.columns = append(q.columns, q.newSelector(fragment, hasParentheses(fragment)))
	}
}

// parseConditions splits the condition clause before every top level AND and
// OR. The operator stays at the head of the fragment it introduces; the AND
// of a BETWEEN never splits.
func (q *SelectQuery) parseConditions(src string, c *clause) {
	if c == nil {
		return
	}

	start := c.start
	depth := 0
	between := false
	emit := func(end int) {
		if fragment := strings.TrimSpace(src[start:end]); fragment != "" {
			q.conditions = append(q.conditions, q.newSelector(fragment, hasParentheses(fragment)))
		}
	}

	for _, t := range c.tokens {
		switch t.tok {
		case lbracket:
			depth++
		case rbracket:
			depth--
		case kwBetween:
			if depth == 0 {
				between = true
			}
		case kwAnd, kwOr:
			if depth != 0 {
				continue
			}
			if t.tok == kwAnd && between {
				between = false
				continue
			}
			emit(t.pos)
			start = t.pos
		}
	}
	emit(c.end)
}

// parseGroupBy splits the group by clause on top level commas. Group by
// fragments are always identifier-resolved.
func (q *SelectQuery) parseGroupBy(src string, c *clause) {
	if c == nil {
		return
	}
	for _, fragment := range splitOnCommas(src, c) {
		q.groupBy = append(q.groupBy, q.newSelector(fragment, false))
	}
}

func splitOnCommas(src string, c *clause) []string {
	var fragments []string
	start := c.start
	depth := 0
	emit := func(end int) {
		if fragment := strings.TrimSpace(src[start:end]); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}

	for _, t := range c.tokens {
		switch t.tok {
		case lbracket:
			depth++
		case rbracket:
			depth--
		case comma:
			if depth == 0 {
				emit(t.pos)
				start = t.pos + 1
			}
		}
	}
	emit(c.end)
	return fragments
}

// parseTables reads the primary table and the joins of the FROM clause.
//
// tables : table ( join )* ;
// table  : ( WORD | "(" ... ")" ) [ "AS" ] [ WORD ] ;
// join   : [ kind [ "OUTER" ] ] "JOIN" table "ON" column "=" column ;
func (q *SelectQuery) parseTables(src string, c *clause) {
	p := &tableParser{src: src, toks: c.tokens, end: c.end}

	name, alias := p.table()
	q.primary = NewTable(name, alias)

	for !p.done() {
		kind := p.joinKind()
		name, alias := p.table()
		p.expect(kwOn)
		on := p.peek()
		p.next()
		left := p.column()
		p.expect(equal)
		p.next()
		right := p.column()

		q.joinOn(on.pos, kind, name, alias, left, right)
	}
}

// joinOn registers a parsed join. The side of the ON equality naming the
// joined table gives the match column; the other side must name a table
// that is already registered.
func (q *SelectQuery) joinOn(pos int, kind JoinKind, name, alias string, left, right qualifiedColumn) {
	t := NewTable(name, alias)

	leftHit, rightHit := t.Matches(left.qualifier), t.Matches(right.qualifier)
	switch {
	case leftHit && rightHit:
		// a self join names the joined table on both sides by name
		if q.lookup(left.qualifier) != nil && q.lookup(right.qualifier) == nil {
			left, right = right, left
		}
	case leftHit:
	case rightHit:
		left, right = right, left
	default:
		fail(malformed(pos, "ON clause does not reference joined table %s", name))
	}

	if alias == "" && q.primary.HasAlias() {
		t.Alias = q.generateAlias(name)
	}

	primary := q.lookup(right.qualifier)
	if primary == nil {
		fail(srvErrors.NewLookupError(right.qualifier))
	}

	q.joins = append(q.joins, &Join{
		Table:         *t,
		Kind:          kind,
		MatchColumn:   left.column,
		PrimaryTable:  primary,
		PrimaryColumn: right.column,
	})
}

// generateAlias derives an alias for name that no registered table uses
// yet. An empty result means the name yields no alias.
func (q *SelectQuery) generateAlias(name string) string {
	alias := createAlias(name)
	if alias == "" {
		return ""
	}
	candidate := alias
	for n := 2; q.lookup(candidate) != nil; n++ {
		candidate = alias + strconv.Itoa(n)
	}
	return candidate
}

type qualifiedColumn struct {
	qualifier string
	column    string
}

type tableParser struct {
	src  string
	toks []token
	i    int
	end  int
}

func (p *tableParser) done() bool {
	return p.i >= len(p.toks)
}

func (p *tableParser) peek() token {
	if p.done() {
		return token{pos: p.end, tok: eol}
	}
	return p.toks[p.i]
}

func (p *tableParser) next() {
	p.i++
}

func (p *tableParser) matches(tokens ...Token) bool {
	return slices.Contains(tokens, p.peek().tok)
}

func (p *tableParser) expect(tok Token) {
	if t := p.peek(); t.tok != tok {
		fail(malformed(t.pos, "expected %s instead of %s", tok, describe(t)))
	}
}

// table reads a table reference and its optional alias. A bracketed table
// reference (a derived table) is kept as written.
func (p *tableParser) table() (string, string) {
	var name string

	t := p.peek()
	switch t.tok {
	case word:
		name = t.val
		p.next()
	case lbracket:
		depth := 0
		for !p.done() {
			cur := p.peek()
			p.next()
			if cur.tok == lbracket {
				depth++
			} else if cur.tok == rbracket {
				depth--
				if depth == 0 {
					name = p.src[t.pos : cur.pos+1]
					break
				}
			}
		}
		if name == "" {
			fail(malformed(t.pos, "unbalanced parentheses"))
		}
	default:
		fail(malformed(t.pos, "expected table name instead of %s", describe(t)))
	}

	if p.matches(kwAs) {
		p.next()
		p.expect(word)
	}
	if p.matches(word) {
		alias := p.peek().val
		p.next()
		return name, alias
	}
	return name, ""
}

// joinKind reads the words in front of JOIN and the JOIN keyword itself.
func (p *tableParser) joinKind() JoinKind {
	var words []string
	for !p.matches(kwJoin) {
		t := p.peek()
		if (t.tok != word && !t.tok.isJoinKind()) || len(words) == 2 {
			fail(malformed(t.pos, "expected JOIN instead of %s", describe(t)))
		}
		words = append(words, t.val)
		p.next()
	}
	p.next()

	kind, err := ParseJoinKind(strings.Join(words, " "))
	if err != nil {
		fail(err)
	}
	return kind
}

func (p *tableParser) column() qualifiedColumn {
	p.expect(word)
	t := p.peek()
	idx := strings.LastIndexByte(t.val, '.')
	if idx <= 0 || idx == len(t.val)-1 {
		fail(malformed(t.pos, "expected qualified column instead of %s", t.val))
	}
	p.next()
	return qualifiedColumn{qualifier: t.val[:idx], column: t.val[idx+1:]}
}

func describe(t token) string {
	if t.tok == word {
		return "'" + t.val + "'"
	}
	return t.tok.String()
}
