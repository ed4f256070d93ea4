package query

import (
	"database/sql"

	"github.com/duckdb/duckdb-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Rendered queries with DuckDB", func() {
	var db *sql.DB

	BeforeEach(func() {
		connector, err := duckdb.NewConnector("", nil)
		Expect(err).ToNot(HaveOccurred())

		db = sql.OpenDB(connector)
		Expect(db.Ping()).To(Succeed())

		for _, stmt := range []string{
			`CREATE TABLE Customers (Id INTEGER, Name VARCHAR)`,
			`CREATE TABLE Orders (Id INTEGER, CustomerId INTEGER, Total DOUBLE)`,
			`INSERT INTO Customers VALUES (1, 'Alice'), (2, 'Bob'), (3, 'Carol')`,
			`INSERT INTO Orders VALUES (1, 1, 5.0), (2, 1, 25.0), (3, 2, 40.0), (4, 3, 12.5)`,
		} {
			_, err := db.Exec(stmt)
			Expect(err).ToNot(HaveOccurred())
		}
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	type row struct {
		id   int
		name string
	}

	scanRows := func(rows *sql.Rows) []row {
		defer rows.Close()
		var out []row
		for rows.Next() {
			var r row
			Expect(rows.Scan(&r.id, &r.name)).To(Succeed())
			out = append(out, r)
		}
		Expect(rows.Err()).ToNot(HaveOccurred())
		return out
	}

	It("should run an ordered join", func() {
		q := MustParse("SELECT o.Id, Customers.Name FROM Orders o JOIN Customers c ON o.CustomerId = c.Id WHERE o.Total > 10")
		q.OrderBy = "Id"

		rows, err := db.Query(q.String())
		Expect(err).ToNot(HaveOccurred())
		Expect(scanRows(rows)).To(Equal([]row{{2, "Alice"}, {3, "Bob"}, {4, "Carol"}}))
	})

	It("should run a subquery column", func() {
		q := MustParse("SELECT c.Name FROM Customers c")
		q.AddSubQueryAsColumn("SELECT COUNT(*) FROM Orders i WHERE i.CustomerId = c.Id", "OrderCount")
		q.OrderBy = "Name"

		rows, err := db.Query(q.String())
		Expect(err).ToNot(HaveOccurred())
		defer rows.Close()

		counts := map[string]int{}
		var names []string
		for rows.Next() {
			var name string
			var count int
			Expect(rows.Scan(&name, &count)).To(Succeed())
			counts[name] = count
			names = append(names, name)
		}
		Expect(names).To(Equal([]string{"Alice", "Bob", "Carol"}))
		Expect(counts).To(Equal(map[string]int{"Alice": 2, "Bob": 1, "Carol": 1}))
	})

	It("should run a grouped query", func() {
		q := MustParse("SELECT o.CustomerId, SUM(o.Total) AS Total FROM Orders o GROUP BY o.CustomerId")
		q.OrderBy = "CustomerId"

		rows, err := db.Query(q.String())
		Expect(err).ToNot(HaveOccurred())
		defer rows.Close()

		var totals []float64
		for rows.Next() {
			var id int
			var total float64
			Expect(rows.Scan(&id, &total)).To(Succeed())
			totals = append(totals, total)
		}
		Expect(totals).To(Equal([]float64{30.0, 40.0, 12.5}))
	})

	It("should page through the squirrel builder", func() {
		q := MustParse("SELECT o.Id, c.Name FROM Orders o JOIN Customers c ON o.CustomerId = c.Id WHERE o.Total > 10")
		q.OrderBy = "o.Id"

		builder, err := q.SelectBuilder()
		Expect(err).ToNot(HaveOccurred())

		rows, err := builder.Limit(2).Offset(1).RunWith(db).Query()
		Expect(err).ToNot(HaveOccurred())
		Expect(scanRows(rows)).To(Equal([]row{{3, "Bob"}, {4, "Carol"}}))
	})
})
