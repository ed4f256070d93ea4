package models

import "github.com/kubev2v/sqltoolkit/pkg/query"

type Condition struct {
	Text       string
	Operator   query.Operator
	Expression bool
}

type Join struct {
	Kind        query.JoinKind
	Table       string
	MatchColumn string
	// PrimaryTable empty joins to the primary table of the query.
	PrimaryTable  string
	PrimaryColumn string
}

type SubqueryColumn struct {
	Query string
	Alias string
}

// RenderOptions are the augmentations applied to a parsed query before it
// is rendered.
type RenderOptions struct {
	OrderBy         string
	Paginate        bool
	Validate        bool
	Joins           []Join
	Columns         []string
	SubqueryColumns []SubqueryColumn
	Conditions      []Condition
	GroupBy         []string
}

// RenderResult is the outcome of rendering one query of a batch.
type RenderResult struct {
	SQL string
	Err error
}
