package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// CatalogRepository reads cases, prizes and accounts
type CatalogRepository struct {
	base
}

var (
	_ repository.Catalog = (*CatalogRepository)(nil)
	_ repository.Account = (*CatalogRepository)(nil)
)

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{base: newBase(db)}
}

// GetCase returns the case and its prizes in catalog order
func (r *CatalogRepository) GetCase(ctx context.Context, caseID int64) (*domain.CatalogCase, error) {
	row, err := r.queryRow(ctx, psql.
		Select("case_id", "name", "price", "active").
		From(tableCases).
		Where(sq.Eq{"case_id": caseID}))
	if err != nil {
		return nil, err
	}

	var c domain.CatalogCase
	var price int64
	if err := row.Scan(&c.ID, &c.Name, &price, &c.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCase, err)
	}
	c.Price = domain.Money(price)

	rows, err := r.query(ctx, psql.
		Select("prize_id", "case_id", "name", "value", "category", "sku", "weight", "draw_eligible", "active").
		From(tablePrizes).
		Where(sq.Eq{"case_id": caseID}).
		OrderBy("sort_order", "prize_id"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPrizes, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.CatalogPrize
		var value int64
		if err := rows.Scan(&p.ID, &p.CaseID, &p.Name, &value, &p.Category, &p.SKU, &p.Weight, &p.DrawEligible, &p.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPrizes, err)
		}
		p.Value = domain.Money(value)
		c.Prizes = append(c.Prizes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPrizes, err)
	}
	return &c, nil
}

// GetAccount returns the account without locking it
func (r *CatalogRepository) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return getAccount(ctx, r.base, userID, false)
}

func getAccount(ctx context.Context, b base, userID uuid.UUID, forUpdate bool) (*domain.Account, error) {
	q := psql.
		Select("user_id", "active", "banned", "demo", "balance").
		From(tableAccounts).
		Where(sq.Eq{"user_id": userID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	row, err := b.queryRow(ctx, q)
	if err != nil {
		return nil, err
	}

	var acc domain.Account
	var balance int64
	if err := row.Scan(&acc.ID, &acc.Active, &acc.Banned, &acc.Demo, &balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAccount, err)
	}
	acc.Balance = domain.Money(balance)
	return &acc, nil
}
