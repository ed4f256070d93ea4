package query

import "strings"

type Token int

const (
	illegal Token = iota
	eol
	word
	comma
	lbracket
	rbracket
	equal
	kwSelect
	kwFrom
	kwWhere
	kwGroup
	kwOrder
	kwBy
	kwLimit
	kwJoin
	kwOn
	kwAs
	kwAnd
	kwOr
	kwBetween
	kwInner
	kwLeft
	kwRight
	kwOuter
	kwFull
	kwCross
	kwNatural
)

var tokenNames = map[Token]string{
	illegal:   "illegal",
	eol:       "eol",
	word:      "word",
	comma:     "','",
	lbracket:  "'('",
	rbracket:  "')'",
	equal:     "'='",
	kwSelect:  "SELECT",
	kwFrom:    "FROM",
	kwWhere:   "WHERE",
	kwGroup:   "GROUP",
	kwOrder:   "ORDER",
	kwBy:      "BY",
	kwLimit:   "LIMIT",
	kwJoin:    "JOIN",
	kwOn:      "ON",
	kwAs:      "AS",
	kwAnd:     "AND",
	kwOr:      "OR",
	kwBetween: "BETWEEN",
	kwInner:   "INNER",
	kwLeft:    "LEFT",
	kwRight:   "RIGHT",
	kwOuter:   "OUTER",
	kwFull:    "FULL",
	kwCross:   "CROSS",
	kwNatural: "NATURAL",
}

func (t Token) String() string {
	return tokenNames[t]
}

var keywords = map[string]Token{
	"select":  kwSelect,
	"from":    kwFrom,
	"where":   kwWhere,
	"group":   kwGroup,
	"order":   kwOrder,
	"by":      kwBy,
	"limit":   kwLimit,
	"join":    kwJoin,
	"on":      kwOn,
	"as":      kwAs,
	"and":     kwAnd,
	"or":      kwOr,
	"between": kwBetween,
	"inner":   kwInner,
	"left":    kwLeft,
	"right":   kwRight,
	"outer":   kwOuter,
	"full":    kwFull,
	"cross":   kwCross,
	"natural": kwNatural,
}

func lookupKeyword(val string) Token {
	if tok, ok := keywords[strings.ToLower(val)]; ok {
		return tok
	}
	return word
}

// isJoinKind reports whether the token may precede JOIN. CROSS and NATURAL
// are recognised so they are never read as an alias; ParseJoinKind rejects
// them.
func (t Token) isJoinKind() bool {
	switch t {
	case kwInner, kwLeft, kwRight, kwOuter, kwFull, kwCross, kwNatural:
		return true
	default:
		return false
	}
}
