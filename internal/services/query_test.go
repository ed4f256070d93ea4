package services_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/sqltoolkit/internal/models"
	"github.com/kubev2v/sqltoolkit/internal/services"
	"github.com/kubev2v/sqltoolkit/internal/store"
	srvErrors "github.com/kubev2v/sqltoolkit/pkg/errors"
	"github.com/kubev2v/sqltoolkit/pkg/query"
	"github.com/kubev2v/sqltoolkit/pkg/scheduler"
)

var _ = Describe("QueryService", func() {
	var (
		ctx   context.Context
		db    *sql.DB
		st    *store.Store
		sched *scheduler.Scheduler[string]
		srv   *services.QueryService
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)

		for _, stmt := range []string{
			`CREATE TABLE Customers (Id INTEGER, Name VARCHAR, Vip INTEGER)`,
			`CREATE TABLE Orders (Id INTEGER, CustomerId INTEGER, Total DOUBLE)`,
		} {
			_, err := db.ExecContext(ctx, stmt)
			Expect(err).NotTo(HaveOccurred())
		}

		sched = scheduler.NewScheduler[string](2)
		srv = services.NewQueryService(st.Validator(), sched)
	})

	AfterEach(func() {
		sched.Close()
		st.Close()
	})

	Describe("Parse", func() {
		It("should summarize the fragments of a query", func() {
			summary, err := srv.Parse(ctx, "SELECT o.Id, Customers.Name FROM Orders o JOIN Customers c ON o.CustomerId = c.Id WHERE o.Total > (SELECT AVG(Total) FROM Orders)")
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.SQL).To(Equal("SELECT o.Id, c.Name FROM Orders o INNER JOIN Customers c ON c.Id = o.CustomerId WHERE o.Total > (SELECT AVG(Total) FROM Orders);"))
			Expect(summary.Primary.Name).To(Equal("Orders"))
			Expect(summary.Primary.Alias).To(Equal("o"))
			Expect(summary.Primary.Selectors).To(Equal([]string{"o.Id"}))

			Expect(summary.Joins).To(HaveLen(1))
			Expect(summary.Joins[0].Name).To(Equal("Customers"))
			Expect(summary.Joins[0].Kind).To(Equal("INNER"))
			Expect(summary.Joins[0].PrimaryTable).To(Equal("o"))
			Expect(summary.Joins[0].Selectors).To(Equal([]string{"c.Name"}))

			Expect(summary.Columns).To(HaveLen(2))
			Expect(summary.Columns[1].Tables).To(Equal([]string{"c"}))
			Expect(summary.Conditions[0].Expression).To(BeTrue())

			Expect(summary.Subqueries).To(HaveLen(1))
			Expect(summary.Subqueries[0].Primary.Name).To(Equal("Orders"))
		})

		It("should return parse errors", func() {
			_, err := srv.Parse(ctx, "SELECT 1")
			Expect(srvErrors.IsStructuralError(err)).To(BeTrue())
		})
	})

	Describe("Render", func() {
		It("should apply every augmentation", func() {
			sql, err := srv.Render(ctx, "SELECT o.Id FROM Orders o", models.RenderOptions{
				Joins:      []models.Join{{Kind: query.LeftJoin, Table: "Customers", MatchColumn: "Id", PrimaryColumn: "CustomerId", PrimaryTable: "o"}},
				Columns:    []string{"Customers.Name"},
				Conditions: []models.Condition{{Text: "o.Total > 10"}, {Text: "c.Vip = 1", Operator: query.OperatorOr}},
				GroupBy:    []string{"o.Id", "c.Name"},
				OrderBy:    "Id",
				Paginate:   true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sql).To(Equal("WITH InnerResults AS (SELECT o.Id, c.Name FROM Orders o LEFT JOIN Customers c ON c.Id = o.CustomerId WHERE o.Total > 10 OR c.Vip = 1 GROUP BY o.Id, c.Name) SELECT * FROM InnerResults ORDER BY Id OFFSET @offsetRows ROWS FETCH NEXT @rowCount ROWS ONLY;"))
		})

		It("should add subquery columns", func() {
			sql, err := srv.Render(ctx, "SELECT c.Name FROM Customers c", models.RenderOptions{
				SubqueryColumns: []models.SubqueryColumn{{Query: "SELECT COUNT(*) FROM Orders i WHERE i.CustomerId = c.Id", Alias: "Orders"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sql).To(Equal("SELECT c.Name, (SELECT COUNT(*) FROM Orders i WHERE i.CustomerId = c.Id) AS Orders FROM Customers c;"))
		})

		It("should validate against the store", func() {
			sql, err := srv.Render(ctx, "SELECT o.Id FROM Orders o JOIN Customers c ON c.Id = o.CustomerId", models.RenderOptions{
				OrderBy:  "Id",
				Validate: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sql).To(HavePrefix("WITH InnerResults AS"))
		})

		It("should return validation failures", func() {
			_, err := srv.Render(ctx, "SELECT Id FROM Invoices", models.RenderOptions{Validate: true})
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})

		It("should return the first mutator error", func() {
			_, err := srv.Render(ctx, "SELECT o.Id FROM Orders o", models.RenderOptions{
				Joins:   []models.Join{{Kind: query.InnerJoin, Table: "Customers c", MatchColumn: "Id", PrimaryTable: "x"}},
				Columns: []string{"c.Name"},
			})
			Expect(srvErrors.IsLookupError(err)).To(BeTrue())
		})

		It("should refuse pagination without order", func() {
			_, err := srv.Render(ctx, "SELECT Id FROM Orders", models.RenderOptions{Paginate: true})
			Expect(srvErrors.IsStructuralError(err)).To(BeTrue())
		})

		It("should fail validation without a validator", func() {
			bare := services.NewQueryService(nil, sched)
			_, err := bare.Render(ctx, "SELECT Id FROM Orders", models.RenderOptions{Validate: true})
			Expect(err).To(MatchError(services.ErrValidatorNotConfigured))
		})
	})

	Describe("RenderBatch", func() {
		It("should render every query in order", func() {
			results := srv.RenderBatch(ctx, []string{
				"SELECT Id FROM Orders",
				"SELECT 1",
				"SELECT Name FROM Customers",
			}, models.RenderOptions{})

			Expect(results).To(HaveLen(3))
			Expect(results[0].Err).NotTo(HaveOccurred())
			Expect(results[0].SQL).To(Equal("SELECT Id FROM Orders;"))
			Expect(srvErrors.IsStructuralError(results[1].Err)).To(BeTrue())
			Expect(results[2].SQL).To(Equal("SELECT Name FROM Customers;"))
		})

		It("should validate every query of the batch", func() {
			results := srv.RenderBatch(ctx, []string{
				"SELECT Id FROM Orders",
				"SELECT Id FROM Invoices",
			}, models.RenderOptions{Validate: true})

			Expect(results[0].Err).NotTo(HaveOccurred())
			Expect(srvErrors.IsValidationError(results[1].Err)).To(BeTrue())
		})

		It("should stop waiting when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			closed := scheduler.NewScheduler[string](1)
			closed.Close()
			bare := services.NewQueryService(nil, closed)

			results := bare.RenderBatch(cancelled, []string{"SELECT Id FROM Orders"}, models.RenderOptions{})
			Expect(results).To(HaveLen(1))
			Expect(results[0].Err).To(MatchError(context.Canceled))
		})
	})
})
