// Package handlers implements the HTTP API layer for sqltoolkit.
//
// Handlers bind and validate requests, delegate to the services layer and
// map query errors to HTTP status codes.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request binding and validation (joinkind tag)                │
//	│  - API-to-model conversion (api/v1)                             │
//	│  - Error mapping to HTTP status codes                           │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  QueryService │ CatalogService                                  │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬─────────────────────────┬────────────────────────────────────────┐
//	│ Method │ Endpoint                │ Description                            │
//	├────────┼─────────────────────────┼────────────────────────────────────────┤
//	│ GET    │ /health                 │ Liveness                               │
//	│ POST   │ /queries/parse          │ Fragment model of a query              │
//	│ POST   │ /queries/render         │ Augment and render a query             │
//	│ POST   │ /queries/render/batch   │ Render many queries with one option set│
//	│ GET    │ /catalog/tables         │ Tables of the validation database      │
//	└────────┴─────────────────────────┴────────────────────────────────────────┘
//
// # Render Handler
//
// POST /queries/render:
//
//	{
//	    "query": "SELECT o.Id FROM Orders o",
//	    "joins": [{"kind": "LEFT", "table": "Customers c", "matchColumn": "Id", "primaryColumn": "CustomerId"}],
//	    "columns": ["c.Name"],
//	    "conditions": [{"text": "o.Total > 10"}, {"text": "c.Vip = 1", "operator": "OR"}],
//	    "orderBy": "Id",
//	    "paginate": true,
//	    "validate": false
//	}
//
// Response:
//
//	{ "sql": "WITH InnerResults AS (...) SELECT * FROM InnerResults ORDER BY Id OFFSET ..." }
//
// The batch endpoint takes "queries" instead of "query" and answers with one
// {"sql"} or {"error"} item per query, in request order.
//
// # Error Handling
//
//	┌──────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                   │ Status │ When                         │
//	├──────────────────────────────┼────────┼──────────────────────────────┤
//	│ Binding error                │ 400    │ Invalid body or join kind    │
//	│ StructuralError              │ 400    │ Missing SELECT/FROM/ORDER BY │
//	│ MalformedQueryError          │ 400    │ Unbalanced or unscannable    │
//	│ InvalidJoinKindError         │ 400    │ Unknown join kind            │
//	│ LookupError                  │ 422    │ Unknown table identifier     │
//	│ ValidationError              │ 422    │ DuckDB rejected the query    │
//	│ Internal error               │ 500    │ Unexpected service errors    │
//	└──────────────────────────────┴────────┴──────────────────────────────┘
package handlers
