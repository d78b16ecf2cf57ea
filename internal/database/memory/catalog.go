package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

var (
	_ repository.Catalog = (*Store)(nil)
	_ repository.Account = (*Store)(nil)
)

func (s *Store) GetCase(ctx context.Context, caseID int64) (*domain.CatalogCase, error) {
	var out *domain.CatalogCase
	err := s.locked(ctx, "GetCase", func() error {
		c, ok := s.cases[caseID]
		if !ok {
			return domain.ErrCaseNotFound
		}
		cp := *c
		cp.Prizes = append([]domain.CatalogPrize(nil), c.Prizes...)
		out = &cp
		return nil
	})
	return out, err
}

func (s *Store) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	var out *domain.Account
	err := s.locked(ctx, "GetAccount", func() error {
		acc, ok := s.accounts[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = &acc
		return nil
	})
	return out, err
}
