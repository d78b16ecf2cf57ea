package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Catalog reads the externally owned case/prize catalog
type Catalog interface {
	// GetCase returns the case with its prizes in catalog order, or domain.ErrCaseNotFound
	GetCase(ctx context.Context, caseID int64) (*domain.CatalogCase, error)
}

// Account reads user accounts. Identity and eligibility are owned externally.
type Account interface {
	// GetAccount returns the account or domain.ErrUserNotFound
	GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
}
