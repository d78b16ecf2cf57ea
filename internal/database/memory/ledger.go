package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

var _ repository.Ledger = (*Store)(nil)

func inWindow(t time.Time, since, until *time.Time) bool {
	if since != nil && t.Before(*since) {
		return false
	}
	if until != nil && !t.Before(*until) {
		return false
	}
	return true
}

func (s *Store) GetCashPosition(ctx context.Context, since, until *time.Time) (domain.CashPosition, error) {
	var pos domain.CashPosition
	err := s.locked(ctx, "GetCashPosition", func() error {
		if since == nil && until == nil {
			pos = s.cash
			return nil
		}
		for _, m := range s.movements {
			if inWindow(m.CreatedAt, since, until) {
				pos.Add(m)
			}
		}
		return nil
	})
	return pos, err
}

func (s *Store) CountDraws(ctx context.Context, since, until *time.Time) (int64, error) {
	var n int64
	err := s.locked(ctx, "CountDraws", func() error {
		for _, m := range s.movements {
			if m.Kind == domain.MovementPrize && !m.Demo && inWindow(m.CreatedAt, since, until) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// LockCashPosition needs no extra lock here: the surrounding transaction already holds the
// store mutex.
func (s *Store) LockCashPosition(ctx context.Context) (domain.CashPosition, error) {
	var pos domain.CashPosition
	err := s.locked(ctx, "LockCashPosition", func() error {
		pos = s.cash
		return nil
	})
	return pos, err
}

func (s *Store) GetAccountForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	var out *domain.Account
	err := s.locked(ctx, "GetAccountForUpdate", func() error {
		acc, ok := s.accounts[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = &acc
		return nil
	})
	return out, err
}

func (s *Store) UpdateBalance(ctx context.Context, userID uuid.UUID, balance domain.Money) error {
	return s.locked(ctx, "UpdateBalance", func() error {
		acc, ok := s.accounts[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		if balance < 0 {
			return domain.ErrInsufficientBalance
		}
		acc.Balance = balance
		s.accounts[userID] = acc
		return nil
	})
}

func (s *Store) InsertMovements(ctx context.Context, movements ...domain.MoneyMovement) error {
	return s.locked(ctx, "InsertMovements", func() error {
		for _, m := range movements {
			if m.Amount < 0 {
				return domain.ErrNegativeAmount
			}
			if _, ok := s.accounts[m.UserID]; !ok {
				return domain.ErrUserNotFound
			}
		}
		for _, m := range movements {
			if m.CreatedAt.IsZero() {
				m.CreatedAt = s.now()
			}
			s.movements = append(s.movements, m)
			s.cash.Add(m)
		}
		return nil
	})
}
