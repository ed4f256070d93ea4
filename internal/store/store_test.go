package store_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/sqltoolkit/internal/store"
	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
)

var _ = Describe("Store", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)

		for _, stmt := range []string{
			`CREATE TABLE Customers (Id INTEGER, Name VARCHAR)`,
			`CREATE TABLE Orders (Id INTEGER, CustomerId INTEGER, Total DOUBLE)`,
		} {
			_, err := db.ExecContext(ctx, stmt)
			Expect(err).NotTo(HaveOccurred())
		}
	})

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("NewDB", func() {
		It("should open an in-memory database for an empty path", func() {
			conn, err := store.NewDB("")
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Ping()).To(Succeed())
			conn.Close()
		})

		It("should open a database file", func() {
			dir, err := os.MkdirTemp("", "store-test")
			Expect(err).NotTo(HaveOccurred())
			defer os.RemoveAll(dir)

			conn, err := store.NewDB(filepath.Join(dir, "catalog.duckdb"))
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Ping()).To(Succeed())
			conn.Close()
		})

		It("should open a database file read-only", func() {
			dir, err := os.MkdirTemp("", "store-test")
			Expect(err).NotTo(HaveOccurred())
			defer os.RemoveAll(dir)
			path := filepath.Join(dir, "catalog.duckdb")

			conn, err := store.NewDB(path)
			Expect(err).NotTo(HaveOccurred())
			_, err = conn.ExecContext(ctx, `CREATE TABLE Products (Id INTEGER)`)
			Expect(err).NotTo(HaveOccurred())
			Expect(conn.Close()).To(Succeed())

			conn, err = store.NewDB(path, store.WithReadOnly())
			Expect(err).NotTo(HaveOccurred())
			readOnly := store.NewStore(conn)
			defer readOnly.Close()

			tables, err := readOnly.Catalog().Tables(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(Equal([]string{"Products"}))

			_, err = conn.ExecContext(ctx, `CREATE TABLE Invoices (Id INTEGER)`)
			Expect(err).To(HaveOccurred())
		})

		It("should ignore read-only for an in-memory database", func() {
			conn, err := store.NewDB(":memory:", store.WithReadOnly())
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			_, err = conn.ExecContext(ctx, `CREATE TABLE Products (Id INTEGER)`)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Validator", func() {
		type testCase struct {
			name  string
			query string
		}

		valid := []testCase{
			{name: "a join", query: "SELECT o.Id, c.Name FROM Orders o INNER JOIN Customers c ON c.Id = o.CustomerId WHERE o.Total > 10;"},
			{name: "an ordered render", query: "WITH InnerResults AS (SELECT Id, Name FROM Customers) SELECT * FROM InnerResults ORDER BY Id;"},
			{name: "a subquery", query: "SELECT Name FROM Customers WHERE Id IN (SELECT CustomerId FROM Orders)"},
		}

		for _, test := range valid {
			test := test
			It("should accept "+test.name, func() {
				Expect(s.Validator().Validate(ctx, test.query)).To(Succeed())
			})
		}

		invalid := []testCase{
			{name: "an unknown table", query: "SELECT Id FROM Invoices;"},
			{name: "an unknown column", query: "SELECT Missing FROM Customers;"},
			{name: "broken syntax", query: "SELECT FROM WHERE;"},
		}

		for _, test := range invalid {
			test := test
			It("should reject "+test.name, func() {
				err := s.Validator().Validate(ctx, test.query)
				Expect(err).To(HaveOccurred())
				Expect(srvErrors.IsValidationError(err)).To(BeTrue())
			})
		}

		It("should reject paginated renders without running them", func() {
			err := s.Validator().Validate(ctx, "WITH InnerResults AS (SELECT Id FROM Customers) SELECT * FROM InnerResults ORDER BY Id OFFSET @offsetRows ROWS FETCH NEXT @rowCount ROWS ONLY;")
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("cannot be validated"))
		})
	})

	Describe("Catalog", func() {
		It("should list tables in name order", func() {
			tables, err := s.Catalog().Tables(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(Equal([]string{"Customers", "Orders"}))
		})

		It("should return an empty list for an empty database", func() {
			conn, err := store.NewDB(":memory:")
			Expect(err).NotTo(HaveOccurred())
			empty := store.NewStore(conn)
			defer empty.Close()

			tables, err := empty.Catalog().Tables(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(BeEmpty())
		})
	})
})
