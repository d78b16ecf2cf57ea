package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Ledger defines money movement storage
type Ledger interface {
	// GetCashPosition aggregates real-account movements created in [since, until).
	// A nil bound is open.
	GetCashPosition(ctx context.Context, since, until *time.Time) (domain.CashPosition, error)

	// CountDraws counts prize movements created in [since, until)
	CountDraws(ctx context.Context, since, until *time.Time) (int64, error)

	// LockCashPosition serializes cash rechecks with concurrent settlements for the rest of the
	// surrounding transaction, then returns the current position
	LockCashPosition(ctx context.Context) (domain.CashPosition, error)

	// GetAccountForUpdate loads and row-locks an account inside the surrounding transaction
	GetAccountForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Account, error)

	// UpdateBalance sets the account balance
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance domain.Money) error

	// InsertMovements appends movements
	InsertMovements(ctx context.Context, movements ...domain.MoneyMovement) error
}
