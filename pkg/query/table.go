package query

import (
	"fmt"
	"strings"
	"unicode"

	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

// JoinKind is the closed set of joins the model renders.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	OuterJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case OuterJoin:
		return "OUTER"
	default:
		return "unknown"
	}
}

// ParseJoinKind parses the words written in front of JOIN. The match is
// case-insensitive; LEFT OUTER and RIGHT OUTER collapse to LEFT and RIGHT,
// FULL and FULL OUTER to OUTER.
func ParseJoinKind(s string) (JoinKind, error) {
	switch strings.ToUpper(strings.Join(strings.Fields(s), " ")) {
	case "", "INNER":
		return InnerJoin, nil
	case "LEFT", "LEFT OUTER":
		return LeftJoin, nil
	case "RIGHT", "RIGHT OUTER":
		return RightJoin, nil
	case "OUTER", "FULL", "FULL OUTER":
		return OuterJoin, nil
	default:
		return InnerJoin, srvErrors.NewInvalidJoinKindError(s)
	}
}

// Table is a relation of the FROM clause.
type Table struct {
	Name  string
	Alias string
}

func NewTable(name, alias string) *Table {
	return &Table{Name: name, Alias: alias}
}

// newTableFromText builds a table from "name [[AS] alias]".
func newTableFromText(text string) *Table {
	fields := strings.Fields(text)
	switch {
	case len(fields) == 0:
		return &Table{}
	case len(fields) > 2 && strings.EqualFold(fields[1], "AS"):
		return NewTable(fields[0], fields[2])
	case len(fields) > 1:
		return NewTable(fields[0], fields[1])
	default:
		return NewTable(fields[0], "")
	}
}

func (t *Table) HasAlias() bool {
	return t.Alias != ""
}

// Identifier is the name other fragments use to qualify columns of t.
func (t *Table) Identifier() string {
	if t.HasAlias() {
		return t.Alias
	}
	return t.Name
}

// Matches reports whether identifier names t either by name or by alias.
func (t *Table) Matches(identifier string) bool {
	if identifier == "" {
		return false
	}
	return strings.EqualFold(identifier, t.Name) || strings.EqualFold(identifier, t.Alias)
}

func (t *Table) String() string {
	if t.HasAlias() {
		return fmt.Sprintf("FROM %s %s", t.Name, t.Alias)
	}
	return fmt.Sprintf("FROM %s", t.Name)
}

// createAlias keeps the upper case letters and digits of name, lowercased.
// OrderDetails2 gives "od2". The result is not guaranteed to be unique.
func createAlias(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// Join is a table of the FROM clause attached through a JOIN ... ON.
type Join struct {
	Table
	Kind        JoinKind
	MatchColumn string
	// PrimaryTable is the table the join matches against. It is owned by
	// the query, not by the join.
	PrimaryTable  *Table
	PrimaryColumn string
}

func (j *Join) String() string {
	if j.HasAlias() {
		return fmt.Sprintf("%s JOIN %s %s ON %s.%s = %s.%s",
			j.Kind, j.Name, j.Alias, j.Alias, j.MatchColumn, j.PrimaryTable.Identifier(), j.PrimaryColumn)
	}
	return fmt.Sprintf("%s JOIN %s ON %s.%s = %s.%s",
		j.Kind, j.Name, j.Name, j.MatchColumn, j.PrimaryTable.Identifier(), j.PrimaryColumn)
}
