package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// QueryInterceptor runs the read-only statements of the store.
type QueryInterceptor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// queryInterceptor logs every statement with its latency. Failures are
// logged at warn level since they are usually a rejected user query.
type queryInterceptor struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func newQueryInterceptor(db *sql.DB) *queryInterceptor {
	return &queryInterceptor{
		db:     db,
		logger: zap.S().Named("store"),
	}
}

func (q *queryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		q.logger.Warnw("statement failed", "query", query, "args", args, "latency", time.Since(start), "error", err)
		return nil, err
	}
	q.logger.Debugw("statement", "query", query, "args", args, "latency", time.Since(start))
	return rows, nil
}
