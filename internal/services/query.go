package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kubev2v/sqltoolkit/internal/models"
	"github.com/kubev2v/sqltoolkit/pkg/query"
	"github.com/kubev2v/sqltoolkit/pkg/scheduler"
)

var ErrValidatorNotConfigured = errors.New("query validation is not configured")

// Validator checks a rendered query against a database.
type Validator interface {
	Validate(ctx context.Context, sql string) error
}

type QueryService struct {
	validator Validator
	scheduler *scheduler.Scheduler[string]
	logger    *zap.SugaredLogger
}

// NewQueryService returns a service rendering batches on s. A nil validator
// turns RenderOptions.Validate into an error.
func NewQueryService(validator Validator, s *scheduler.Scheduler[string]) *QueryService {
	return &QueryService{
		validator: validator,
		scheduler: s,
		logger:    zap.S().Named("query_service"),
	}
}

// Parse returns the fragment model of text.
func (s *QueryService) Parse(ctx context.Context, text string) (models.QuerySummary, error) {
	q, err := query.Parse(text)
	if err != nil {
		s.logger.Debugw("parse failed", "error", err)
		return models.QuerySummary{}, err
	}
	s.logger.Debugw("query parsed", "tables", len(q.Tables()), "subqueries", len(q.Subqueries()))
	return models.NewQuerySummary(q), nil
}

// Render parses text, applies opts and renders the result.
func (s *QueryService) Render(ctx context.Context, text string, opts models.RenderOptions) (string, error) {
	q, err := query.Parse(text)
	if err != nil {
		s.logger.Debugw("parse failed", "error", err)
		return "", err
	}

	apply(q, opts)

	sql, err := q.ToSQL()
	if err != nil {
		s.logger.Debugw("render failed", "error", err)
		return "", err
	}

	if opts.Validate {
		if s.validator == nil {
			return "", ErrValidatorNotConfigured
		}
		if err := s.validator.Validate(ctx, sql); err != nil {
			s.logger.Infow("query rejected by validator", "sql", sql, "error", err)
			return "", err
		}
	}

	s.logger.Debugw("query rendered", "sql", sql)
	return sql, nil
}

// RenderBatch renders every text with the same opts on the scheduler.
// Results keep the order of texts.
func (s *QueryService) RenderBatch(ctx context.Context, texts []string, opts models.RenderOptions) []models.RenderResult {
	futures := make([]*scheduler.Future[string], 0, len(texts))
	for _, text := range texts {
		futures = append(futures, s.scheduler.AddWork(func(workCtx context.Context) (string, error) {
			return s.Render(workCtx, text, opts)
		}))
	}

	results := make([]models.RenderResult, len(texts))
	for i, f := range futures {
		select {
		case r := <-f.C():
			results[i] = models.RenderResult{SQL: r.Data, Err: r.Err}
		case <-ctx.Done():
			f.Stop()
			results[i] = models.RenderResult{Err: ctx.Err()}
		}
	}

	s.logger.Debugw("batch rendered", "count", len(texts))
	return results
}

// apply runs the augmentations in dependency order: joins first so the
// columns and conditions that follow can reference the joined tables.
func apply(q *query.SelectQuery, opts models.RenderOptions) {
	for _, j := range opts.Joins {
		if j.PrimaryTable == "" {
			q.AddJoin(j.Kind, j.Table, j.MatchColumn)
			continue
		}
		q.AddJoinTo(j.Kind, j.Table, j.MatchColumn, j.PrimaryTable, j.PrimaryColumn)
	}

	if len(opts.Columns) > 0 {
		q.AddColumns(opts.Columns...)
	}
	for _, c := range opts.SubqueryColumns {
		q.AddSubQueryAsColumn(c.Query, c.Alias)
	}

	for _, c := range opts.Conditions {
		var condOpts []query.ConditionOption
		if c.Operator != "" {
			condOpts = append(condOpts, query.WithOperator(c.Operator))
		}
		if c.Expression {
			condOpts = append(condOpts, query.AsExpression())
		}
		q.AddCondition(c.Text, condOpts...)
	}

	if len(opts.GroupBy) > 0 {
		q.AddGroupBy(opts.GroupBy...)
	}

	q.OrderBy = opts.OrderBy
	q.HasPagination = opts.Paginate
}
