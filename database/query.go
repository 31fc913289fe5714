package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type SortDirection string

const (
	ASC  SortDirection = "ASC"
	DESC SortDirection = "DESC"
)

type orderClause struct {
	column    string
	direction SortDirection
}

// QueryBuilder provides a fluent, type-safe API over bun select queries.
type QueryBuilder[T any] struct {
	db *DB

	wheres    []func(q *bun.SelectQuery) *bun.SelectQuery
	orders    []orderClause
	relations []string
	limitVal  *int
	offsetVal *int
	timeout   time.Duration
}

// Query starts a new query for the table mapped to T.
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds an equality condition on a column.
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where("? = ?", bun.Ident(column), value)
	})
	return q
}

// WhereRaw adds a raw condition with bun placeholders.
func (q *QueryBuilder[T]) WhereRaw(condition string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where(condition, args...)
	})
	return q
}

// WhereIn adds an IN condition on a column.
func (q *QueryBuilder[T]) WhereIn(column string, values []any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where("? IN (?)", bun.Ident(column), bun.In(values))
	})
	return q
}

// ILike adds a case-insensitive substring match on a column.
func (q *QueryBuilder[T]) ILike(column, term string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where("? ILIKE ?", bun.Ident(column), "%"+term+"%")
	})
	return q
}

func (q *QueryBuilder[T]) OrderBy(column string, direction SortDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, orderClause{column: column, direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(n int) *QueryBuilder[T] {
	q.limitVal = &n
	return q
}

func (q *QueryBuilder[T]) Offset(n int) *QueryBuilder[T] {
	q.offsetVal = &n
	return q
}

// Relation preloads a bun relation (e.g. "Stock", "Category").
func (q *QueryBuilder[T]) Relation(name string) *QueryBuilder[T] {
	q.relations = append(q.relations, name)
	return q
}

// Timeout bounds query execution.
func (q *QueryBuilder[T]) Timeout(d time.Duration) *QueryBuilder[T] {
	q.timeout = d
	return q
}

func (q *QueryBuilder[T]) build(model any) *bun.SelectQuery {
	sq := q.db.NewSelect().Model(model)
	for _, w := range q.wheres {
		sq = w(sq)
	}
	for _, o := range q.orders {
		sq = sq.OrderExpr("? ?", bun.Ident(o.column), bun.Safe(string(o.direction)))
	}
	for _, rel := range q.relations {
		sq = sq.Relation(rel)
	}
	if q.limitVal != nil {
		sq = sq.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		sq = sq.Offset(*q.offsetVal)
	}
	return sq
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching records with automatic retry.
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data []T
	err := WithRetry(ctx, func() error {
		data = nil // reset on retry
		return q.build(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}
	return data, nil
}

// First executes the query and returns the first matching record.
// No match reports sql.ErrNoRows.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data T
	err := WithRetry(ctx, func() error {
		return q.build(&data).Limit(1).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}
	return &data, nil
}

// Count returns the number of matching records.
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var count int
	err := WithRetry(ctx, func() error {
		var model []T
		var countErr error
		count, countErr = q.build(&model).Count(ctx)
		return countErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}
	return count, nil
}

// Insert persists a new record.
func (q *QueryBuilder[T]) Insert(ctx context.Context, model *T) (*T, error) {
	_, err := q.db.NewInsert().Model(model).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Pagination is the metadata block attached to paginated listings.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
}

type PaginatedResult[T any] struct {
	Data       []T
	Pagination Pagination
}

// Paginate runs the query twice: once for the total count, once for the page.
func Paginate[T any](q *QueryBuilder[T], ctx context.Context, page, pageSize int) (*PaginatedResult[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}

	data, err := q.Limit(pageSize).Offset((page - 1) * pageSize).All(ctx)
	if err != nil {
		return nil, err
	}

	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}

	return &PaginatedResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
			Pages:    pages,
		},
	}, nil
}
