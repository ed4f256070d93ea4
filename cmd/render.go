package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/sqltoolkit/api/v1"
	"github.com/kubev2v/sqltoolkit/internal/config"
	"github.com/kubev2v/sqltoolkit/internal/models"
	"github.com/kubev2v/sqltoolkit/internal/services"
	"github.com/kubev2v/sqltoolkit/internal/store"
	"github.com/kubev2v/sqltoolkit/pkg/query"
	"github.com/kubev2v/sqltoolkit/pkg/scheduler"
)

var errRenderFailed = errors.New("some queries failed to render")

type renderFlags struct {
	orderBy         string
	paginate        bool
	validate        bool
	output          string
	columns         []string
	subqueryColumns []string
	conditions      []string
	groupBy         []string
	joins           []string
}

func NewRenderCommand(cfg *config.Configuration) *cobra.Command {
	f := &renderFlags{}

	renderCmd := &cobra.Command{
		Use:          "render [file...]",
		SilenceUsage: true,
		Short:        "Augment SELECT statements and print the resulting SQL",
		Long: `Augment each statement with the given joins, columns, conditions and group by
columns, then print it. With --order-by the statement is wrapped in a common
table expression; --paginate adds the @offsetRows and @rowCount bindings.

  --join        kind:table:matchColumn[:primaryTable[:primaryColumn]]
  --condition   text, or "OR text" to chain with OR
  --subquery    alias=(SELECT ...)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(f.output); err != nil {
				return err
			}

			opts, err := f.toModel()
			if err != nil {
				return err
			}

			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			var validator services.Validator
			if f.validate {
				db, err := store.NewDB(cfg.Store.Path, store.WithReadOnly())
				if err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
				st := store.NewStore(db)
				defer st.Close()
				validator = st.Validator()
			}

			sched := scheduler.NewScheduler[string](cfg.Scheduler.NumWorkers)
			defer sched.Close()

			texts := make([]string, 0, len(inputs))
			for _, in := range inputs {
				texts = append(texts, in.text)
			}
			results := services.NewQueryService(validator, sched).RenderBatch(cmd.Context(), texts, opts)

			if f.output != textOutput {
				if err := encode(cmd.OutOrStdout(), f.output, v1.NewBatchRenderResponse(results)); err != nil {
					return err
				}
			} else {
				for i, r := range results {
					if r.Err != nil {
						errorColor.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", inputs[i].name, r.Err)
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), r.SQL)
				}
			}

			for _, r := range results {
				if r.Err != nil {
					if len(results) == 1 {
						return r.Err
					}
					return errRenderFailed
				}
			}
			return nil
		},
	}

	flags := renderCmd.Flags()
	flags.StringVar(&f.orderBy, "order-by", "", "Order the rendered query by this clause")
	flags.BoolVar(&f.paginate, "paginate", false, "Add OFFSET/FETCH pagination bindings (requires --order-by)")
	flags.BoolVar(&f.validate, "validate", false, "Validate the rendered query against the store")
	flags.StringVarP(&f.output, "output", "o", textOutput, "Output format (text, json, yaml)")
	flags.StringArrayVar(&f.columns, "column", nil, "Column to add (repeatable)")
	flags.StringArrayVar(&f.subqueryColumns, "subquery", nil, "Subquery column to add as alias=query (repeatable)")
	flags.StringArrayVar(&f.conditions, "condition", nil, "Condition to add (repeatable)")
	flags.StringArrayVar(&f.groupBy, "group-by", nil, "Group by column to add (repeatable)")
	flags.StringArrayVar(&f.joins, "join", nil, "Join to add (repeatable)")
	flags.StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path, "DuckDB database used by --validate")
	flags.IntVar(&cfg.Scheduler.NumWorkers, "num-workers", cfg.Scheduler.NumWorkers, "Number of workers rendering files")

	return renderCmd
}

func (f *renderFlags) toModel() (models.RenderOptions, error) {
	opts := models.RenderOptions{
		OrderBy:  f.orderBy,
		Paginate: f.paginate,
		Validate: f.validate,
		Columns:  f.columns,
		GroupBy:  f.groupBy,
	}

	for _, j := range f.joins {
		join, err := parseJoinFlag(j)
		if err != nil {
			return models.RenderOptions{}, err
		}
		opts.Joins = append(opts.Joins, join)
	}

	for _, s := range f.subqueryColumns {
		alias, sub, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(alias) == "" || strings.TrimSpace(sub) == "" {
			return models.RenderOptions{}, fmt.Errorf("invalid subquery %q: expected alias=query", s)
		}
		opts.SubqueryColumns = append(opts.SubqueryColumns, models.SubqueryColumn{
			Query: strings.TrimSpace(sub),
			Alias: strings.TrimSpace(alias),
		})
	}

	for _, c := range f.conditions {
		opts.Conditions = append(opts.Conditions, parseConditionFlag(c))
	}

	return opts, nil
}

func parseJoinFlag(value string) (models.Join, error) {
	parts := strings.SplitN(value, ":", 5)
	if len(parts) < 3 {
		return models.Join{}, fmt.Errorf("invalid join %q: expected kind:table:matchColumn[:primaryTable[:primaryColumn]]", value)
	}

	kind, err := query.ParseJoinKind(parts[0])
	if err != nil {
		return models.Join{}, err
	}

	j := models.Join{
		Kind:        kind,
		Table:       strings.TrimSpace(parts[1]),
		MatchColumn: strings.TrimSpace(parts[2]),
	}
	if len(parts) > 3 {
		j.PrimaryTable = strings.TrimSpace(parts[3])
	}
	if len(parts) > 4 {
		j.PrimaryColumn = strings.TrimSpace(parts[4])
	}
	if j.Table == "" || j.MatchColumn == "" {
		return models.Join{}, fmt.Errorf("invalid join %q: table and match column are required", value)
	}
	return j, nil
}

func parseConditionFlag(value string) models.Condition {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > 3 && strings.EqualFold(trimmed[:3], "OR ") {
		return models.Condition{Text: strings.TrimSpace(trimmed[3:]), Operator: query.OperatorOr}
	}
	return models.Condition{Text: trimmed}
}
