package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const subqueryPrefix = "SUBQUERY"

var placeholderRe = regexp.MustCompile(`\{` + subqueryPrefix + `_(\d+)\}`)

func placeholder(index int) string {
	return fmt.Sprintf("{%s_%d}", subqueryPrefix, index)
}

// extractSubqueries replaces every "(SELECT ...)" body of src with a
// placeholder and parses the body into a child query. The closing bracket is
// found by counting nested brackets. Bodies nested inside an extracted body
// are extracted by the child.
func (q *SelectQuery) extractSubqueries(src string) string {
	l := newLexer(src)
	for {
		pos, tok, val := l.Scan()
		switch tok {
		case eol:
			return src
		case illegal:
			fail(malformed(pos, "%s", val))
		case lbracket:
			if !startsSelect(src, pos+1) {
				continue
			}

			start := pos + 1
			end := closingBracket(src, start)
			if end < 0 {
				fail(malformed(pos, "unbalanced parentheses"))
			}

			child, err := Parse(src[start:end])
			if err != nil {
				fail(err)
			}

			ph := placeholder(len(q.subqueries))
			q.subqueries = append(q.subqueries, child)

			src = src[:start] + ph + src[end:]
			l = newLexerAt(src, start+len(ph))
		}
	}
}

// startsSelect reports whether the SELECT keyword begins at offset.
func startsSelect(src string, offset int) bool {
	const kw = "SELECT"
	if len(src) < offset+len(kw) || !strings.EqualFold(src[offset:offset+len(kw)], kw) {
		return false
	}
	return len(src) == offset+len(kw) || !isWordChar(src[offset+len(kw)])
}

// closingBracket returns the offset of the bracket closing the one opened
// right before start, or -1.
func closingBracket(src string, start int) int {
	l := newLexerAt(src, start)
	depth := 1
	for {
		pos, tok, _ := l.Scan()
		switch tok {
		case eol, illegal:
			return -1
		case lbracket:
			depth++
		case rbracket:
			depth--
			if depth == 0 {
				return pos
			}
		}
	}
}

// expandSubqueries substitutes placeholders in text with the inner query of
// the subquery they address. Unknown indexes are left untouched.
func (q *SelectQuery) expandSubqueries(text string) string {
	if !strings.Contains(text, "{"+subqueryPrefix) {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(ph string) string {
		m := placeholderRe.FindStringSubmatch(ph)
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= len(q.subqueries) {
			return ph
		}
		return q.subqueries[idx].InnerQuery()
	})
}
