// Package errors provides custom error types for sqltoolkit.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type               │ HTTP   │ Description                         │
//	├──────────────────────────┼────────┼─────────────────────────────────────┤
//	│ StructuralError          │ 400    │ Required clause (FROM) is absent    │
//	│ MalformedQueryError      │ 400    │ Text the scanner cannot segment     │
//	│ InvalidJoinKindError     │ 400    │ Join kind outside the closed set    │
//	│ LookupError              │ 422    │ Table identifier is not registered  │
//	│ ValidationError          │ 422    │ DuckDB rejected the rendered query  │
//	└──────────────────────────┴────────┴─────────────────────────────────────┘
//
// # StructuralError
//
// Returned by query.Parse when the text has no FROM clause, and by
// SelectQuery.ToSQL when pagination is requested without an ORDER BY.
//
// Constructors:
//   - NewStructuralError(clause string)
//   - NewMissingFromClauseError()
//
// # LookupError
//
// Indicates a table was referenced by a name or alias that the query does
// not know: GetTable, join construction, or PrimaryTable on a query without
// a primary table.
//
// Constructors:
//   - NewLookupError(identifier string)
//   - NewPrimaryTableNotFoundError()
//
// # InvalidJoinKindError
//
// Join kinds are parsed strictly: INNER, LEFT, RIGHT and OUTER (plus the
// LEFT OUTER, RIGHT OUTER and FULL OUTER spellings). Anything else in front
// of JOIN is rejected with this error.
//
// # MalformedQueryError
//
// Carries the offset in the normalized query text. Produced for unbalanced
// parentheses during subquery extraction and for table clauses that do not
// follow the "[kind] JOIN table [alias] ON a.x = b.y" pattern.
//
// # ValidationError
//
// Returned by the store validator when EXPLAIN fails for a rendered query,
// or when the query carries the OFFSET/FETCH bindings DuckDB cannot bind.
//
// Constructors:
//   - NewValidationError(reason string)
//   - NewPaginationNotValidatableError()
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("render failed: %w", errors.NewLookupError("c"))
//	errors.IsLookupError(wrapped) // returns true
//
// # Handler Error Mapping
//
//	switch {
//	case errors.IsLookupError(err), errors.IsValidationError(err):
//	    c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
//	case errors.IsStructuralError(err), errors.IsMalformedQueryError(err), errors.IsInvalidJoinKindError(err):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
package errors
