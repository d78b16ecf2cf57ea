// Package safety holds the draw preconditions and the global emergency switch.
package safety

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/metrics"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Config tunes the guard
type Config struct {
	// EmergencyCacheTTL bounds how stale the emergency flag seen by draws may be
	EmergencyCacheTTL time.Duration
	WeightTolerance   decimal.Decimal
}

// Guard runs the safety predicates with logging and metrics, and owns the emergency switch
type Guard interface {
	// CheckEmergency returns domain.ErrEmergencyModeActive while draws are suspended. An
	// unreadable switch suspends draws too.
	CheckEmergency(ctx context.Context) error
	AdmitUser(ctx context.Context, acc *domain.Account, price domain.Money) error
	AdmitCase(ctx context.Context, c *domain.Case) error
	// AdmitPayout returns domain.ErrCashPositionUnsafe when crediting would leave net cash
	// negative. The draw engine reduces the credit instead of refusing.
	AdmitPayout(ctx context.Context, net, credited domain.Money) error

	EmergencyState(ctx context.Context) (*domain.EmergencyState, error)
	Activate(ctx context.Context, actor, reason string) (*domain.EmergencyState, error)
	Deactivate(ctx context.Context, actor string) (*domain.EmergencyState, error)
	History(ctx context.Context, limit int) ([]domain.EmergencyHistoryEntry, error)
}

type guard struct {
	repo  repository.RTP
	txm   repository.TxManager
	bus   event.Bus
	cfg   Config
	cache *expirable.LRU[string, domain.EmergencyState]
	now   func() time.Time
}

// NewGuard creates a guard. A zero EmergencyCacheTTL reads the switch on every check.
func NewGuard(repo repository.RTP, txm repository.TxManager, bus event.Bus, cfg Config) Guard {
	if bus == nil {
		bus = event.NopBus{}
	}
	g := &guard{repo: repo, txm: txm, bus: bus, cfg: cfg, now: time.Now}
	if cfg.EmergencyCacheTTL > 0 {
		g.cache = expirable.NewLRU[string, domain.EmergencyState](1, nil, cfg.EmergencyCacheTTL)
	}
	return g
}

func (g *guard) reject(ctx context.Context, c Check, attrs ...any) error {
	metrics.GuardRejections.WithLabelValues(c.Reason).Inc()
	logger.FromContext(ctx).Warn(SecurityAlertRejected, append([]any{"reason", c.Reason}, attrs...)...)
	return c.Err()
}

func (g *guard) CheckEmergency(ctx context.Context) error {
	state, err := g.EmergencyState(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgEmergencyUnreadable, "error", err)
		metrics.GuardRejections.WithLabelValues(ReasonEmergency).Inc()
		return fmt.Errorf("%w: %v", domain.ErrEmergencyModeActive, err)
	}
	if state.Active {
		return g.reject(ctx, fail(ReasonEmergency), "emergency_reason", state.Reason)
	}
	return nil
}

func (g *guard) AdmitUser(ctx context.Context, acc *domain.Account, price domain.Money) error {
	if c := CheckUser(acc, price); !c.OK {
		var id any
		if acc != nil {
			id = acc.ID
		}
		return g.reject(ctx, c, "user_id", id, "price", price.String())
	}
	return nil
}

func (g *guard) AdmitCase(ctx context.Context, c *domain.Case) error {
	if chk := CheckCase(c); !chk.OK {
		var id any
		if c != nil {
			id = c.ID
		}
		return g.reject(ctx, chk, "case_id", id)
	}
	if chk := CheckCatalogWeights(c, g.cfg.WeightTolerance); !chk.OK {
		logger.FromContext(ctx).Warn(LogMsgWeightsNotNormal, "case_id", c.ID)
	}
	return nil
}

func (g *guard) AdmitPayout(ctx context.Context, net, credited domain.Money) error {
	if c := CheckPayout(net, credited); !c.OK {
		return g.reject(ctx, c, "net_cash", net.String(), "credited", credited.String())
	}
	return nil
}

func (g *guard) EmergencyState(ctx context.Context) (*domain.EmergencyState, error) {
	if g.cache != nil {
		if s, ok := g.cache.Get(emergencyKey); ok {
			return &s, nil
		}
	}
	s, err := g.repo.GetEmergencyState(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetEmergency, err)
	}
	if g.cache != nil {
		g.cache.Add(emergencyKey, *s)
	}
	return s, nil
}

func (g *guard) Activate(ctx context.Context, actor, reason string) (*domain.EmergencyState, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrReasonRequired
	}
	return g.set(ctx, true, actor, reason)
}

func (g *guard) Deactivate(ctx context.Context, actor string) (*domain.EmergencyState, error) {
	return g.set(ctx, false, actor, "")
}

// set writes the switch and its history entry in one transaction. Setting the current state
// again is a no-op and leaves no history.
func (g *guard) set(ctx context.Context, active bool, actor, reason string) (*domain.EmergencyState, error) {
	log := logger.FromContext(ctx)
	var (
		state   *domain.EmergencyState
		changed bool
	)
	err := g.txm.Do(ctx, func(ctx context.Context) error {
		current, err := g.repo.GetEmergencyState(ctx)
		if err != nil {
			return err
		}
		if current.Active == active {
			state = current
			return nil
		}
		now := g.now()
		next := &domain.EmergencyState{Active: active, Reason: reason, Actor: actor, ChangedAt: now}
		if err := g.repo.SaveEmergencyState(ctx, next); err != nil {
			return err
		}
		if err := g.repo.AppendEmergencyHistory(ctx, &domain.EmergencyHistoryEntry{
			Active:    active,
			Reason:    reason,
			Actor:     actor,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		state, changed = next, true
		return nil
	})
	if g.cache != nil {
		g.cache.Remove(emergencyKey)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextSetEmergency, err)
	}

	if !changed {
		log.Info(LogMsgEmergencyNoop, "active", active, "actor", actor)
		return state, nil
	}
	if active {
		log.Warn(SecurityAlertEmergencyOn, "actor", actor, "reason", reason)
	} else {
		log.Warn(SecurityAlertEmergencyOff, "actor", actor)
	}
	event.Emit(ctx, g.bus, event.New(event.EmergencyModeChanged, event.EmergencyModeChangedPayloadV1{
		Active:    active,
		Actor:     actor,
		Reason:    reason,
		ChangedAt: state.ChangedAt,
	}))
	return state, nil
}

func (g *guard) History(ctx context.Context, limit int) ([]domain.EmergencyHistoryEntry, error) {
	h, err := g.repo.ListEmergencyHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetHistory, err)
	}
	return h, nil
}
