package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql builds statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// base gives every repository access to the pool, or to the transaction the transaction
// manager stored in ctx
type base struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func newBase(db *pgxpool.Pool) base {
	return base{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (b base) conn(ctx context.Context) trmpgx.Tr {
	return b.getter.DefaultTrOrDB(ctx, b.db)
}

// exec runs a built statement and returns the number of affected rows
func (b base) exec(ctx context.Context, q sq.Sqlizer) (int64, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}
	tag, err := b.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (b base) queryRow(ctx context.Context, q sq.Sqlizer) (pgx.Row, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}
	return b.conn(ctx).QueryRow(ctx, sqlStr, args...), nil
}

func (b base) query(ctx context.Context, q sq.Sqlizer) (pgx.Rows, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}
	return b.conn(ctx).Query(ctx, sqlStr, args...)
}

// isPgError reports whether err carries the given PostgreSQL error code
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// windowed applies the half-open [since, until) bounds on column to q
func windowed(q sq.SelectBuilder, column string, since, until *time.Time) sq.SelectBuilder {
	if since != nil {
		q = q.Where(sq.GtOrEq{column: *since})
	}
	if until != nil {
		q = q.Where(sq.Lt{column: *until})
	}
	return q
}
