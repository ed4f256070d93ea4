// Package query models a single SQL SELECT statement as fragments that can
// be inspected, augmented and rendered back to text.
//
// Supported shape
//
//	SELECT column ( "," column )*
//	FROM table [ [AS] alias ]
//	     ( [ INNER | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | OUTER ] JOIN table [ [AS] alias ] ON a.x = b.y )*
//	[ WHERE condition ( ( AND | OR ) condition )* ]
//	[ GROUP BY column ( "," column )* ]
//	[ ORDER BY ... | LIMIT ... ]   -- recognised, then dropped
//
// Parsing
//
//  1. Whitespace runs collapse to one space; trailing semicolons are dropped.
//  2. Every "(SELECT ...)" body is replaced by a {SUBQUERY_n} placeholder and
//     parsed into the n-th child query. The body ends at the bracket closing
//     the opening one, found by counting brackets.
//  3. A one-pass scanner splits the text into the column, table, condition
//     and group by clauses at depth zero.
//  4. Columns and group by split on top level commas, conditions before top
//     level AND/OR. Every fragment becomes a Selector.
//
// A fragment holding both brackets is an expression and is rendered
// verbatim. Other fragments are scanned for qualifier.column names: the
// qualifier is matched against the name or alias of the query's tables and,
// when the primary table is aliased, replaced with the table's alias.
//
//	q, _ := query.Parse(`SELECT Customers.Name FROM Orders o
//	                     JOIN Customers c ON o.CustomerId = c.Id`)
//	q.String()
//	// SELECT c.Name FROM Orders o INNER JOIN Customers c ON c.Id = o.CustomerId;
//
// Rendering with OrderBy wraps the query for paging:
//
//	q.OrderBy = "Id"
//	q.HasPagination = true
//	q.String()
//	// WITH InnerResults AS (SELECT ...) SELECT * FROM InnerResults ORDER BY Id
//	//   OFFSET @offsetRows ROWS FETCH NEXT @rowCount ROWS ONLY;
//
// Known limitations: the model is not a SQL grammar. Comma joins, multi
// predicate ON clauses, UNION and CTE input are rejected or misread. String
// literals are not excluded from qualified name rewriting. Nesting depth is
// bounded only by the call stack. One side of an ON equality must name the
// joined table, otherwise Parse fails with a MalformedQueryError.
//
// The ORDER BY and LIMIT tail is dropped silently at every level, subqueries
// included. A query whose meaning depends on its own ordering changes
// meaning when rendered back:
//
//	SELECT a FROM t WHERE a = (SELECT TOP 1 b FROM u ORDER BY b DESC)
//	// renders as
//	SELECT a FROM t WHERE a = (SELECT TOP 1 b FROM u);
//
// Set OrderBy on the outer query only.
package query
