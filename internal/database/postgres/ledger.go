package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// LedgerRepository stores money movements and account balances
type LedgerRepository struct {
	base
}

var _ repository.Ledger = (*LedgerRepository)(nil)

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{base: newBase(db)}
}

// GetCashPosition sums non-demo movements per kind
func (r *LedgerRepository) GetCashPosition(ctx context.Context, since, until *time.Time) (domain.CashPosition, error) {
	var pos domain.CashPosition

	q := psql.
		Select("kind", "COALESCE(SUM(amount), 0)::BIGINT").
		From(tableMovements).
		Where(sq.Eq{"demo": false}).
		GroupBy("kind")
	rows, err := r.query(ctx, windowed(q, "created_at", since, until))
	if err != nil {
		return pos, fmt.Errorf("%s: %w", ErrMsgFailedToGetCashPosition, err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var total int64
		if err := rows.Scan(&kind, &total); err != nil {
			return pos, fmt.Errorf("%s: %w", ErrMsgFailedToGetCashPosition, err)
		}
		pos.Add(domain.MoneyMovement{Kind: domain.MovementKind(kind), Amount: domain.Money(total)})
	}
	if err := rows.Err(); err != nil {
		return pos, fmt.Errorf("%s: %w", ErrMsgFailedToGetCashPosition, err)
	}
	return pos, nil
}

func (r *LedgerRepository) CountDraws(ctx context.Context, since, until *time.Time) (int64, error) {
	q := psql.
		Select("COUNT(*)").
		From(tableMovements).
		Where(sq.Eq{"kind": string(domain.MovementPrize), "demo": false})
	row, err := r.queryRow(ctx, windowed(q, "created_at", since, until))
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountDraws, err)
	}
	return n, nil
}

// LockCashPosition takes a transaction-scoped advisory lock so concurrent settlements recheck
// the cash position one at a time. It must run inside a transaction.
func (r *LedgerRepository) LockCashPosition(ctx context.Context) (domain.CashPosition, error) {
	if _, err := r.conn(ctx).Exec(ctx, "SELECT pg_advisory_xact_lock($1)", CashPositionLockKey); err != nil {
		return domain.CashPosition{}, fmt.Errorf("%s: %w", ErrMsgFailedToLockCashPosition, err)
	}
	return r.GetCashPosition(ctx, nil, nil)
}

func (r *LedgerRepository) GetAccountForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return getAccount(ctx, r.base, userID, true)
}

func (r *LedgerRepository) UpdateBalance(ctx context.Context, userID uuid.UUID, balance domain.Money) error {
	if balance < 0 {
		return domain.ErrInsufficientBalance
	}
	n, err := r.exec(ctx, psql.
		Update(tableAccounts).
		Set("balance", int64(balance)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID}))
	if err != nil {
		if isPgError(err, PgErrorCodeCheckViolation) {
			return domain.ErrInsufficientBalance
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *LedgerRepository) InsertMovements(ctx context.Context, movements ...domain.MoneyMovement) error {
	if len(movements) == 0 {
		return nil
	}
	q := psql.Insert(tableMovements).
		Columns("movement_id", "user_id", "kind", "amount", "case_id", "draw_id", "linked_id", "demo", "created_at")
	for _, m := range movements {
		if m.Amount < 0 {
			return domain.ErrNegativeAmount
		}
		createdAt := m.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		q = q.Values(m.ID, m.UserID, string(m.Kind), int64(m.Amount), m.CaseID, m.DrawID, m.LinkedID, m.Demo, createdAt)
	}
	if _, err := r.exec(ctx, q); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertMovements, err)
	}
	return nil
}
