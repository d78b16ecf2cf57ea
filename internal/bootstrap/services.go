package bootstrap

import (
	"github.com/osse101/CaseVault_Go/internal/audit"
	"github.com/osse101/CaseVault_Go/internal/catalog"
	"github.com/osse101/CaseVault_Go/internal/concurrency"
	"github.com/osse101/CaseVault_Go/internal/config"
	"github.com/osse101/CaseVault_Go/internal/draw"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/handler"
	"github.com/osse101/CaseVault_Go/internal/ledger"
	"github.com/osse101/CaseVault_Go/internal/rtp"
	"github.com/osse101/CaseVault_Go/internal/safety"
	"github.com/osse101/CaseVault_Go/internal/server"
	"github.com/osse101/CaseVault_Go/internal/session"
)

// Services holds every application service built over one set of repositories
type Services struct {
	Catalog  catalog.Service
	Cash     ledger.Reader
	Ledger   ledger.Writer
	RTP      rtp.Service
	Guard    safety.Guard
	Sessions session.Tracker
	Audit    audit.Service
	Draw     draw.Service

	store handler.Pinger
}

// InitializeServices wires the services with the engine tuning
func InitializeServices(repos *Repositories, engine config.EngineConfig, bus event.Bus) *Services {
	cash := ledger.NewReader(repos.Ledger, engine.Ledger.Currency)
	s := &Services{
		Catalog:  catalog.NewService(repos.Catalog, catalog.ConfigFrom(engine.Catalog)),
		Cash:     cash,
		Ledger:   ledger.NewWriter(repos.Ledger, repos.Tx),
		RTP:      rtp.NewService(repos.RTP, repos.Tx, cash, bus, rtp.ConfigFrom(engine.RTP), nil),
		Guard:    safety.NewGuard(repos.RTP, repos.Tx, bus, safety.ConfigFrom(engine.Safety)),
		Sessions: session.NewTracker(repos.Sessions, bus),
		Audit:    audit.NewService(repos.Audit, repos.Tx, bus, engine.Audit.MaxQueryLimit),
	}
	s.Draw = draw.NewService(draw.Deps{
		Catalog:  s.Catalog,
		Accounts: repos.Accounts,
		Guard:    s.Guard,
		Cash:     s.Cash,
		RTP:      s.RTP,
		Sessions: s.Sessions,
		Ledger:   s.Ledger,
		Audit:    s.Audit,
		Tx:       repos.Tx,
		Locks:    concurrency.NewLockManager(),
		Bus:      bus,
	}, draw.ConfigFrom(engine.Draw))
	s.store = repos.Health
	return s
}

// HTTP returns the services the router exposes
func (s *Services) HTTP() server.Services {
	return server.Services{
		Store: s.store,
		Draw:  s.Draw,
		RTP:   s.RTP,
		Cash:  s.Cash,
		Guard: s.Guard,
		Audit: s.Audit,
	}
}
