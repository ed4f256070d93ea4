package v1

// ParseRequest defines model for ParseRequest.
type ParseRequest struct {
	Query string `json:"query" yaml:"query" binding:"required"`
}

// Condition defines model for Condition.
type Condition struct {
	Text       string `json:"text" yaml:"text" binding:"required"`
	Operator   string `json:"operator,omitempty" yaml:"operator,omitempty" binding:"omitempty,oneof=AND OR and or"`
	Expression bool   `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// Join defines model for Join.
type Join struct {
	Kind          string `json:"kind,omitempty" yaml:"kind,omitempty" binding:"joinkind"`
	Table         string `json:"table" yaml:"table" binding:"required"`
	MatchColumn   string `json:"matchColumn" yaml:"matchColumn" binding:"required"`
	PrimaryTable  string `json:"primaryTable,omitempty" yaml:"primaryTable,omitempty"`
	PrimaryColumn string `json:"primaryColumn,omitempty" yaml:"primaryColumn,omitempty"`
}

// SubqueryColumn defines model for SubqueryColumn.
type SubqueryColumn struct {
	Query string `json:"query" yaml:"query" binding:"required"`
	Alias string `json:"alias" yaml:"alias" binding:"required"`
}

// RenderOptions defines model for RenderOptions.
type RenderOptions struct {
	OrderBy         string           `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
	Paginate        bool             `json:"paginate,omitempty" yaml:"paginate,omitempty"`
	Validate        bool             `json:"validate,omitempty" yaml:"validate,omitempty"`
	Columns         []string         `json:"columns,omitempty" yaml:"columns,omitempty" binding:"dive,required"`
	SubqueryColumns []SubqueryColumn `json:"subqueryColumns,omitempty" yaml:"subqueryColumns,omitempty" binding:"dive"`
	Conditions      []Condition      `json:"conditions,omitempty" yaml:"conditions,omitempty" binding:"dive"`
	GroupBy         []string         `json:"groupBy,omitempty" yaml:"groupBy,omitempty" binding:"dive,required"`
	Joins           []Join           `json:"joins,omitempty" yaml:"joins,omitempty" binding:"dive"`
}

// RenderRequest defines model for RenderRequest.
type RenderRequest struct {
	Query         string `json:"query" yaml:"query" binding:"required"`
	RenderOptions `yaml:",inline"`
}

// BatchRenderRequest defines model for BatchRenderRequest.
type BatchRenderRequest struct {
	Queries       []string `json:"queries" yaml:"queries" binding:"required,min=1,dive,required"`
	RenderOptions `yaml:",inline"`
}

// RenderResponse defines model for RenderResponse.
type RenderResponse struct {
	Sql string `json:"sql" yaml:"sql"`
}

// BatchRenderItem defines model for BatchRenderItem.
type BatchRenderItem struct {
	Sql   *string `json:"sql,omitempty" yaml:"sql,omitempty"`
	Error *string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchRenderResponse defines model for BatchRenderResponse.
type BatchRenderResponse struct {
	Results []BatchRenderItem `json:"results" yaml:"results"`
}

// Selector defines model for Selector.
type Selector struct {
	Content    string   `json:"content" yaml:"content"`
	Expression bool     `json:"expression" yaml:"expression"`
	Tables     []string `json:"tables" yaml:"tables"`
}

// Table defines model for Table.
type Table struct {
	Name      string   `json:"name" yaml:"name"`
	Alias     *string  `json:"alias,omitempty" yaml:"alias,omitempty"`
	Selectors []string `json:"selectors" yaml:"selectors"`
}

// JoinedTable defines model for JoinedTable.
type JoinedTable struct {
	Table         `yaml:",inline"`
	Kind          string `json:"kind" yaml:"kind"`
	MatchColumn   string `json:"matchColumn" yaml:"matchColumn"`
	PrimaryTable  string `json:"primaryTable" yaml:"primaryTable"`
	PrimaryColumn string `json:"primaryColumn" yaml:"primaryColumn"`
}

// QuerySummary defines model for QuerySummary.
type QuerySummary struct {
	Sql        string         `json:"sql" yaml:"sql"`
	Primary    Table          `json:"primary" yaml:"primary"`
	Joins      []JoinedTable  `json:"joins" yaml:"joins"`
	Columns    []Selector     `json:"columns" yaml:"columns"`
	Conditions []Selector     `json:"conditions" yaml:"conditions"`
	GroupBy    []Selector     `json:"groupBy" yaml:"groupBy"`
	Subqueries []QuerySummary `json:"subqueries" yaml:"subqueries"`
}

// CatalogTables defines model for CatalogTables.
type CatalogTables struct {
	Tables []string `json:"tables" yaml:"tables"`
}

// Health defines model for Health.
type Health struct {
	Status string `json:"status" yaml:"status"`
}

// Error defines model for Error.
type Error struct {
	Error string `json:"error" yaml:"error"`
}
