package query

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

func contents(selectors []*Selector) []string {
	out := make([]string, 0, len(selectors))
	for _, s := range selectors {
		out = append(out, s.Content())
	}
	return out
}

var _ = Describe("Parse", func() {
	Context("Round trip", func() {
		type testCase struct {
			name     string
			input    string
			expected string
		}

		tests := []testCase{
			{
				name:     "single table",
				input:    "SELECT Id, Name FROM Customers",
				expected: "SELECT Id, Name FROM Customers;",
			},
			{
				name:     "whitespace and semicolon",
				input:    "SELECT  Id,\n\tName\nFROM   Customers ;",
				expected: "SELECT Id, Name FROM Customers;",
			},
			{
				name:     "lower case keywords",
				input:    "select a from t where b = 1",
				expected: "SELECT a FROM t WHERE b = 1;",
			},
			{
				name:     "function call with commas",
				input:    "SELECT SUM(a,b), c FROM t",
				expected: "SELECT SUM(a,b), c FROM t;",
			},
			{
				name:     "grouped conditions",
				input:    "SELECT a FROM t WHERE (a=1 OR b=2) AND c=3",
				expected: "SELECT a FROM t WHERE (a=1 OR b=2) AND c=3;",
			},
			{
				name:     "aliased join",
				input:    "SELECT o.Id, c.Name FROM Orders o JOIN Customers c ON o.CustomerId = c.Id",
				expected: "SELECT o.Id, c.Name FROM Orders o INNER JOIN Customers c ON c.Id = o.CustomerId;",
			},
			{
				name:     "table name rewritten to alias",
				input:    "SELECT Customers.Name FROM Orders o JOIN Customers c ON o.CustomerId = c.Id",
				expected: "SELECT c.Name FROM Orders o INNER JOIN Customers c ON c.Id = o.CustomerId;",
			},
			{
				name:     "names kept without primary alias",
				input:    "SELECT Customers.Name, Orders.Id FROM Orders JOIN Customers ON Orders.CustomerId = Customers.Id",
				expected: "SELECT Customers.Name, Orders.Id FROM Orders INNER JOIN Customers ON Customers.Id = Orders.CustomerId;",
			},
			{
				name:     "generated join alias",
				input:    "SELECT CustomerAddresses.City FROM Orders o LEFT JOIN CustomerAddresses ON CustomerAddresses.OrderId = o.Id",
				expected: "SELECT ca.City FROM Orders o LEFT JOIN CustomerAddresses ca ON ca.OrderId = o.Id;",
			},
			{
				name:     "generated alias avoids collisions",
				input:    "SELECT o.Id FROM Orders o JOIN Offices ON Offices.Id = o.OfficeId",
				expected: "SELECT o.Id FROM Orders o INNER JOIN Offices o2 ON o2.Id = o.OfficeId;",
			},
			{
				name:     "outer joins",
				input:    "SELECT o.Id FROM Orders o LEFT OUTER JOIN Customers c ON c.Id = o.CustomerId FULL OUTER JOIN Shops s ON s.Id = o.ShopId",
				expected: "SELECT o.Id FROM Orders o LEFT JOIN Customers c ON c.Id = o.CustomerId OUTER JOIN Shops s ON s.Id = o.ShopId;",
			},
			{
				name:     "join to a joined table",
				input:    "SELECT a.City FROM Orders o JOIN Customers c ON c.Id = o.CustomerId RIGHT JOIN Addresses a ON a.CustomerId = c.Id",
				expected: "SELECT a.City FROM Orders o INNER JOIN Customers c ON c.Id = o.CustomerId RIGHT JOIN Addresses a ON a.CustomerId = c.Id;",
			},
			{
				name:     "self join",
				input:    "SELECT p.Id FROM Orders JOIN Orders p ON Orders.ParentId = p.Id",
				expected: "SELECT p.Id FROM Orders INNER JOIN Orders p ON p.Id = Orders.ParentId;",
			},
			{
				name:     "AS keyword",
				input:    "SELECT o.Id FROM Orders AS o",
				expected: "SELECT o.Id FROM Orders o;",
			},
			{
				name:     "group by with order by dropped",
				input:    "SELECT o.CustomerId, COUNT(*) FROM Orders o GROUP BY o.CustomerId ORDER BY o.CustomerId",
				expected: "SELECT o.CustomerId, COUNT(*) FROM Orders o GROUP BY o.CustomerId;",
			},
			{
				name:     "limit dropped",
				input:    "SELECT a FROM t WHERE b = 1 LIMIT 10",
				expected: "SELECT a FROM t WHERE b = 1;",
			},
			{
				name:     "keywords inside literals",
				input:    "SELECT a FROM t WHERE b = 'x FROM y WHERE z'",
				expected: "SELECT a FROM t WHERE b = 'x FROM y WHERE z';",
			},
		}

		for _, test := range tests {
			test := test
			It("should render "+test.name, func() {
				q, err := Parse(test.input)
				Expect(err).NotTo(HaveOccurred())
				Expect(q.String()).To(Equal(test.expected))
			})

			It("should be idempotent for "+test.name, func() {
				once := MustParse(test.input).String()
				twice := MustParse(once).String()
				Expect(twice).To(Equal(once))
			})
		}
	})

	Context("Columns", func() {
		It("should keep function arguments in one column", func() {
			q := MustParse("SELECT SUM(a,b), c FROM t")
			Expect(contents(q.Columns())).To(Equal([]string{"SUM(a,b)", "c"}))
			Expect(q.Columns()[0].IsExpression()).To(BeTrue())
			Expect(q.Columns()[1].IsExpression()).To(BeFalse())
		})

		It("should attribute unqualified columns to the primary table", func() {
			q := MustParse("SELECT Id FROM Customers c")
			Expect(q.Columns()[0].References()).To(Equal([]string{"c"}))
		})

		It("should resolve aliases to their tables", func() {
			q := MustParse("SELECT o.Id, c.Name FROM Orders o JOIN Customers c ON o.CustomerId = c.Id")

			columns := q.Columns()
			Expect(columns[1].References()).To(Equal([]string{"c"}))

			tables := q.TablesOf(columns[1])
			Expect(tables).To(HaveLen(1))
			Expect(tables[0].Name).To(Equal("Customers"))

			selectors, err := q.SelectorsFor("Customers")
			Expect(err).NotTo(HaveOccurred())
			Expect(contents(selectors)).To(Equal([]string{"c.Name"}))

			selectors, err = q.SelectorsFor("o")
			Expect(err).NotTo(HaveOccurred())
			Expect(contents(selectors)).To(Equal([]string{"o.Id"}))
		})

		It("should fail SelectorsFor an unknown table", func() {
			q := MustParse("SELECT a FROM t")
			_, err := q.SelectorsFor("x")
			Expect(srvErrors.IsLookupError(err)).To(BeTrue())
		})
	})

	Context("Conditions", func() {
		It("should split on top level operators only", func() {
			q := MustParse("SELECT a FROM t WHERE (a=1 OR b=2) AND c=3")
			conditions := q.Conditions()
			Expect(contents(conditions)).To(Equal([]string{"(a=1 OR b=2)", "AND c=3"}))
			Expect(conditions[0].IsExpression()).To(BeTrue())
			Expect(conditions[1].IsExpression()).To(BeFalse())
		})

		It("should not split the AND of a BETWEEN", func() {
			q := MustParse("SELECT a FROM t WHERE a BETWEEN 1 AND 5 OR b = 2 AND c = 3")
			Expect(contents(q.Conditions())).To(Equal([]string{"a BETWEEN 1 AND 5", "OR b = 2", "AND c = 3"}))
		})

		It("should reference every table a condition reads", func() {
			q := MustParse("SELECT o.Id FROM Orders o JOIN Customers c ON c.Id = o.CustomerId WHERE o.Total > c.Limit")
			Expect(q.Conditions()[0].References()).To(Equal([]string{"o", "c"}))
		})
	})

	Context("Tables", func() {
		It("should expose the primary table and the joins", func() {
			q := MustParse("SELECT o.Id FROM Orders o JOIN Customers c ON o.CustomerId = c.Id")

			primary, err := q.PrimaryTable()
			Expect(err).NotTo(HaveOccurred())
			Expect(primary.Name).To(Equal("Orders"))
			Expect(primary.Alias).To(Equal("o"))

			Expect(q.Tables()).To(HaveLen(2))

			join, err := q.GetJoin("customers")
			Expect(err).NotTo(HaveOccurred())
			Expect(join.Kind).To(Equal(InnerJoin))
			Expect(join.MatchColumn).To(Equal("Id"))
			Expect(join.PrimaryTable).To(BeIdenticalTo(primary))
			Expect(join.PrimaryColumn).To(Equal("CustomerId"))

			t, err := q.GetTable("c")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Name).To(Equal("Customers"))
		})

		It("should report unknown tables", func() {
			q := MustParse("SELECT a FROM t")
			_, err := q.GetTable("nonexistent")
			Expect(srvErrors.IsLookupError(err)).To(BeTrue())
			_, err = q.GetJoin("t")
			Expect(srvErrors.IsLookupError(err)).To(BeTrue())
		})

		It("should keep a derived table as written", func() {
			q := MustParse("SELECT d.x FROM (SELECT x FROM u) d")
			primary, err := q.PrimaryTable()
			Expect(err).NotTo(HaveOccurred())
			Expect(primary.Name).To(Equal("({SUBQUERY_0})"))
			Expect(primary.Alias).To(Equal("d"))
			Expect(q.String()).To(Equal("SELECT d.x FROM (SELECT x FROM u) d;"))
		})
	})

	Context("Errors", func() {
		type testCase struct {
			name  string
			input string
			check func(error) bool
		}

		tests := []testCase{
			{name: "missing FROM", input: "SELECT 1", check: srvErrors.IsStructuralError},
			{name: "not a select", input: "UPDATE t SET a = 1", check: srvErrors.IsStructuralError},
			{name: "empty text", input: "   ", check: srvErrors.IsStructuralError},
			{name: "unclosed subquery", input: "SELECT a FROM t WHERE a IN (SELECT x FROM u", check: srvErrors.IsMalformedQueryError},
			{name: "unclosed call", input: "SELECT SUM(a FROM t", check: srvErrors.IsMalformedQueryError},
			{name: "stray bracket", input: "SELECT a) FROM t", check: srvErrors.IsMalformedQueryError},
			{name: "unclosed literal", input: "SELECT a FROM t WHERE b = 'x", check: srvErrors.IsMalformedQueryError},
			{name: "comma join", input: "SELECT a FROM t1, t2", check: srvErrors.IsMalformedQueryError},
			{name: "missing ON", input: "SELECT a FROM t1 JOIN t2", check: srvErrors.IsMalformedQueryError},
			{name: "unqualified ON", input: "SELECT a FROM t1 x JOIN t2 y ON a = b", check: srvErrors.IsMalformedQueryError},
			{name: "WHERE before FROM", input: "SELECT a WHERE b = 1 FROM t", check: srvErrors.IsMalformedQueryError},
			{name: "cross join", input: "SELECT a FROM t1 x CROSS JOIN t2 y ON x.a = y.a", check: srvErrors.IsInvalidJoinKindError},
			{name: "unknown join table", input: "SELECT a FROM Orders o JOIN Customers c ON c.Id = y.Id", check: srvErrors.IsLookupError},
			{name: "ON without the joined table", input: "SELECT a FROM Orders o JOIN Customers c ON o.x = b.y", check: srvErrors.IsMalformedQueryError},
			{name: "broken subquery", input: "SELECT a FROM t WHERE a IN (SELECT 1)", check: srvErrors.IsStructuralError},
		}

		for _, test := range tests {
			test := test
			It("should reject "+test.name, func() {
				q, err := Parse(test.input)
				Expect(err).To(HaveOccurred())
				Expect(test.check(err)).To(BeTrue(), err.Error())
				Expect(q).To(BeNil())
			})
		}

		It("should report the clause a structural error is about", func() {
			_, err := Parse("SELECT 1")
			Expect(err).To(MatchError("query must have a FROM clause"))
		})

		It("should report the unresolved identifier", func() {
			_, err := Parse("SELECT a FROM Orders o JOIN Customers c ON c.Id = y.Id")
			Expect(err).To(MatchError("table with identifier 'y' not found"))
		})

		It("should name the joined table missing from the ON clause", func() {
			_, err := Parse("SELECT a FROM Orders o JOIN Customers c ON o.x = b.y")
			Expect(err).To(MatchError(ContainSubstring("ON clause does not reference joined table Customers")))
		})

		It("should panic in MustParse", func() {
			Expect(func() { MustParse("SELECT 1") }).To(Panic())
		})
	})
})
