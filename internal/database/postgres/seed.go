package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// SeedRepository writes catalog and account fixtures. Production catalogs and balances are
// owned by other systems; this backs cmd/setup -seed only.
type SeedRepository struct {
	base
	txm repository.TxManager
}

// NewSeedRepository creates a new SeedRepository
func NewSeedRepository(db *pgxpool.Pool, txm repository.TxManager) *SeedRepository {
	return &SeedRepository{base: newBase(db), txm: txm}
}

// SeedCase inserts the case and its prizes unless a case with the same name exists, in which
// case the existing id is returned and nothing is written
func (r *SeedRepository) SeedCase(ctx context.Context, c domain.CatalogCase) (int64, bool, error) {
	row, err := r.queryRow(ctx, psql.Select("case_id").From(tableCases).Where(sq.Eq{"name": c.Name}).Limit(1))
	if err != nil {
		return 0, false, err
	}
	var id int64
	err = row.Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("%s: %w", ErrMsgFailedToSeed, err)
	}

	err = r.txm.Do(ctx, func(ctx context.Context) error {
		row, err := r.queryRow(ctx, psql.
			Insert(tableCases).
			Columns("name", "price", "active").
			Values(c.Name, int64(c.Price), c.Active).
			Suffix("RETURNING case_id"))
		if err != nil {
			return err
		}
		if err := row.Scan(&id); err != nil {
			return err
		}
		if len(c.Prizes) == 0 {
			return nil
		}

		q := psql.Insert(tablePrizes).
			Columns("case_id", "name", "value", "category", "sku", "weight", "draw_eligible", "active", "sort_order")
		for i, p := range c.Prizes {
			q = q.Values(id, p.Name, int64(p.Value), p.Category, p.SKU, p.Weight, p.DrawEligible, p.Active, i)
		}
		_, err = r.exec(ctx, q)
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", ErrMsgFailedToSeed, err)
	}
	return id, true, nil
}

// SeedAccount creates the account and books its opening balance as a deposit. Existing accounts
// are left untouched.
func (r *SeedRepository) SeedAccount(ctx context.Context, acc domain.Account) (bool, error) {
	created := false
	err := r.txm.Do(ctx, func(ctx context.Context) error {
		n, err := r.exec(ctx, psql.
			Insert(tableAccounts).
			Columns("user_id", "active", "banned", "demo", "balance").
			Values(acc.ID, acc.Active, acc.Banned, acc.Demo, int64(acc.Balance)).
			Suffix("ON CONFLICT (user_id) DO NOTHING"))
		if err != nil || n == 0 || acc.Balance <= 0 {
			created = n > 0
			return err
		}
		created = true
		_, err = r.exec(ctx, psql.
			Insert(tableMovements).
			Columns("movement_id", "user_id", "kind", "amount", "demo", "created_at").
			Values(uuid.New(), acc.ID, string(domain.MovementDeposit), int64(acc.Balance), acc.Demo, time.Now()))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToSeed, err)
	}
	return created, nil
}
