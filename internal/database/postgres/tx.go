package postgres

import (
	"fmt"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseVault_Go/internal/repository"
)

// NewTxManager returns a transaction manager whose transactions are picked up by every
// repository in this package through the context
func NewTxManager(db *pgxpool.Pool) (repository.TxManager, error) {
	m, err := manager.New(trmpgx.NewDefaultFactory(db))
	if err != nil {
		return nil, fmt.Errorf("failed to create tx manager: %w", err)
	}
	return m, nil
}
