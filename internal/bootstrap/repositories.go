package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseVault_Go/internal/database/memory"
	"github.com/osse101/CaseVault_Go/internal/database/postgres"
	"github.com/osse101/CaseVault_Go/internal/handler"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// Both storage backends fill every field so services never know which one runs.
type Repositories struct {
	Catalog  repository.Catalog
	Accounts repository.Account
	Ledger   repository.Ledger
	RTP      repository.RTP
	Sessions repository.Session
	Audit    repository.Audit
	Tx       repository.TxManager
	Seeder   Seeder
	Health   handler.Pinger
}

// InitializeRepositories creates the postgres repositories sharing one transaction manager
func InitializeRepositories(dbPool *pgxpool.Pool) (*Repositories, error) {
	txm, err := postgres.NewTxManager(dbPool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateTxMgr, err)
	}
	catalog := postgres.NewCatalogRepository(dbPool)

	slog.Info(LogMsgUsingPostgresStorage)
	return &Repositories{
		Catalog:  catalog,
		Accounts: catalog,
		Ledger:   postgres.NewLedgerRepository(dbPool),
		RTP:      postgres.NewRTPRepository(dbPool),
		Sessions: postgres.NewSessionRepository(dbPool),
		Audit:    postgres.NewAuditRepository(dbPool),
		Tx:       txm,
		Seeder:   postgres.NewSeedRepository(dbPool, txm),
		Health:   dbPool,
	}, nil
}

// InitializeMemoryRepositories backs every repository with one in-memory store
func InitializeMemoryRepositories(store *memory.Store) *Repositories {
	slog.Warn(LogMsgUsingMemoryStorage)
	return &Repositories{
		Catalog:  store,
		Accounts: store,
		Ledger:   store,
		RTP:      store,
		Sessions: store,
		Audit:    store,
		Tx:       store,
		Seeder:   store,
		Health:   store,
	}
}
