// Package draw decides which prize a case purchase yields and settles it.
package draw

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/CaseVault_Go/internal/audit"
	"github.com/osse101/CaseVault_Go/internal/catalog"
	"github.com/osse101/CaseVault_Go/internal/concurrency"
	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/ledger"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/repository"
	"github.com/osse101/CaseVault_Go/internal/rtp"
	"github.com/osse101/CaseVault_Go/internal/safety"
	"github.com/osse101/CaseVault_Go/internal/session"
)

// Service runs draws
type Service interface {
	// Draw debits the case price and credits one prize. Rejections are returned as domain errors
	// without side effects. Any other failure is absorbed into a Degraded minimum-prize result;
	// domain.ErrInternal means even that failed and nothing was debited.
	Draw(ctx context.Context, caseID int64, userID uuid.UUID) (*domain.DrawResult, error)
}

// Deps are the collaborators of the engine
type Deps struct {
	Catalog  catalog.Service
	Accounts repository.Account
	Guard    safety.Guard
	Cash     ledger.Reader
	RTP      rtp.Service
	Sessions session.Tracker
	Ledger   ledger.Writer
	Audit    audit.Service
	Tx       repository.TxManager
	Locks    *concurrency.LockManager
	Bus      event.Bus

	// Rand returns a uniform float in [0, 1). Nil uses math/rand/v2.
	Rand func() float64
}

type service struct {
	Deps
	cfg Config
}

// NewService creates the draw engine
func NewService(deps Deps, cfg Config) Service {
	if deps.Rand == nil {
		deps.Rand = rand.Float64
	}
	if deps.Bus == nil {
		deps.Bus = event.NopBus{}
	}
	if deps.Locks == nil {
		deps.Locks = concurrency.NewLockManager()
	}
	return &service{Deps: deps, cfg: cfg}
}

// attempt is the state of one Draw call; it becomes the audit record
type attempt struct {
	rec     domain.AuditRecord
	blocked []domain.BlockedPrizeEvent
	started time.Time

	c      *domain.Case
	prize  domain.AwardedPrize
	result *domain.DrawResult
}

func (s *service) Draw(ctx context.Context, caseID int64, userID uuid.UUID) (*domain.DrawResult, error) {
	a := &attempt{
		rec:     domain.AuditRecord{ID: uuid.New(), UserID: userID, CaseID: caseID},
		started: time.Now(),
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	log := logger.FromContext(ctx).With("draw_id", a.rec.ID, "case_id", caseID, "user_id", userID)

	res, err := s.execute(ctx, a)
	switch {
	case err == nil:
	case domain.IsRejection(err):
		a.rec.Outcome = domain.OutcomeRejected
		a.rec.ErrorDetail = err.Error()
		a.blocked = nil
		log.Info(LogMsgDrawRejected, "error", err)
	default:
		a.rec.Outcome = domain.OutcomeError
		a.rec.ErrorDetail = err.Error()
		a.blocked = nil
		log.Error(LogMsgFallbackFailed, "error", err)
		err = fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	s.record(ctx, a)
	if err != nil {
		event.Emit(ctx, s.Bus, event.New(event.DrawRejected, event.DrawRejectedPayloadV1{
			DrawID: a.rec.ID.String(),
			UserID: userID.String(),
			CaseID: caseID,
			Reason: err.Error(),
		}))
		return nil, err
	}

	log.Info(LogMsgDrawCompleted,
		"outcome", a.rec.Outcome,
		"prize", res.Prize.Name,
		"credited", res.Prize.Value.String(),
		"ceiling", res.Ceiling.String(),
		"protection", res.ProtectionApplied,
		"degraded", res.Degraded)
	event.Emit(ctx, s.Bus, event.New(event.DrawCompleted, event.DrawCompletedPayloadV1{
		DrawID:            a.rec.ID.String(),
		UserID:            userID.String(),
		CaseID:            caseID,
		Outcome:           string(a.rec.Outcome),
		Price:             int64(a.c.Price),
		Credited:          int64(res.Prize.Value),
		Ceiling:           int64(res.Ceiling),
		ProtectionApplied: res.ProtectionApplied,
		Degraded:          res.Degraded,
		LatencyMs:         a.rec.LatencyMs,
	}))
	return res, nil
}

// execute returns a result, a rejection, or the error that defeated the fallback. A panic
// anywhere in the draw comes back as an error so the attempt is still recorded.
func (s *service) execute(ctx context.Context, a *attempt) (res *domain.DrawResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, panicked(ctx, r)
		}
	}()

	// Nothing may be read before the switch
	if err := s.Guard.CheckEmergency(ctx); err != nil {
		return nil, err
	}

	release, err := s.Locks.Acquire(ctx, fmt.Sprintf(lockKeyFormat, a.rec.UserID, a.rec.CaseID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextLock, err)
	}
	defer release()

	if err := guarded(ctx, func() error { return s.admit(ctx, a) }); err != nil {
		if domain.IsRejection(err) || a.c == nil {
			return nil, err
		}
		return s.fallback(ctx, a, err)
	}

	err = guarded(ctx, func() error {
		var err error
		res, err = s.decide(ctx, a)
		return err
	})
	if err == nil {
		return res, nil
	}
	if domain.IsRejection(err) {
		return nil, err
	}
	return s.fallback(ctx, a, err)
}

// admit loads the case and the account and runs the eligibility checks
func (s *service) admit(ctx context.Context, a *attempt) error {
	c, err := s.Catalog.GetCase(ctx, a.rec.CaseID)
	if errors.Is(err, domain.ErrCaseNotFound) {
		return s.Guard.AdmitCase(ctx, nil)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextLoadCase, err)
	}
	if err := s.Guard.AdmitCase(ctx, c); err != nil {
		return err
	}
	a.c = c

	acc, err := s.Accounts.GetAccount(ctx, a.rec.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.Guard.AdmitUser(ctx, nil, c.Price)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextLoadAccount, err)
	}
	return s.Guard.AdmitUser(ctx, acc, c.Price)
}

// guarded runs fn and turns a panic into an error the caller can fall back on
func guarded(ctx context.Context, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicked(ctx, r)
		}
	}()
	return fn()
}

func panicked(ctx context.Context, r any) error {
	logger.FromContext(ctx).Error(LogMsgDrawPanicked, "panic", r)
	return fmt.Errorf("%s: %v", ErrContextPanic, r)
}

// decide runs the ceiling, selection and settlement
func (s *service) decide(ctx context.Context, a *attempt) (*domain.DrawResult, error) {
	var (
		pos domain.CashPosition
		cfg *domain.RTPConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pos, err = s.Cash.CashPosition(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cfg, err = s.RTP.GetConfig(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextReadState, err)
	}

	c := a.c
	net := pos.Net()
	ceiling := s.cfg.Ceiling(net, cfg.TargetRatio, c.Price)
	fallback := s.cfg.Fallback(c.Price)
	a.rec.TargetRatio = cfg.TargetRatio
	a.rec.Ceiling = ceiling
	a.rec.CashBefore = net

	var (
		prize      domain.AwardedPrize
		selected   domain.Money
		outcome    domain.DrawOutcome
		protection bool
		limited    bool
		reduced    bool
		blocked    []domain.BlockedPrizeEvent
		receipt    *domain.SettlementReceipt
	)
	err := s.Tx.Do(ctx, func(ctx context.Context) error {
		log := logger.FromContext(ctx)
		sess, err := s.Sessions.GetOrCreate(ctx, a.rec.UserID, c.ID, cfg.TargetRatio)
		if err != nil {
			return err
		}

		blocked, protection, limited, reduced = nil, false, false, false
		switch {
		case sess.LimitReached:
			limited, outcome = true, domain.OutcomeSessionLimited
			prize = minimumPrize(fallback)
			selected = fallback
			log.Info(LogMsgSessionLimited, "session_id", sess.ID, "rtp", sess.CurrentRTP().String())
		default:
			admissible, excluded := s.cfg.Admissible(c, ceiling)
			blocked = blockedEvents(c, excluded, ceiling, net, cfg.TargetRatio)
			if len(admissible) == 0 {
				outcome, protection = domain.OutcomeFallback, true
				prize = minimumPrize(fallback)
				selected = fallback
				log.Warn(LogMsgNoAdmissible, "blocked", len(excluded))
				break
			}
			p := Select(admissible, s.Rand())
			outcome = domain.OutcomeAwarded
			prize = domain.AwardedPrize{ID: &p.ID, Name: p.Name, Value: p.Value, Kind: p.Kind}
			selected = p.Value
			if p.Value > ceiling {
				protection = true
				prize.Value = ceiling
				log.Warn(LogMsgPrizeClamped, "prize_id", p.ID, "value", p.Value.String(), "ceiling", ceiling.String())
			}
		}

		receipt, err = s.Ledger.Settle(ctx, domain.Settlement{
			DrawID:     a.rec.ID,
			UserID:     a.rec.UserID,
			CaseID:     c.ID,
			Price:      c.Price,
			PrizeValue: prize.Value,
			CashCheck: func(net domain.Money) domain.Money {
				if s.Guard.AdmitPayout(ctx, net, prize.Value) == nil {
					return prize.Value
				}
				reduced = true
				credit := domain.MinMoney(fallback, domain.MaxMoney(net, 0))
				log.Warn(LogMsgPayoutReduced, "net_cash", net.String(), "selected", prize.Value.String(), "credited", credit.String())
				return credit
			},
		})
		if err != nil {
			return err
		}
		_, err = s.Sessions.RecordPurchase(ctx, sess, c.Price, receipt.Credited)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextSettle, err)
	}

	if reduced {
		protection = true
		prize.Value = receipt.Credited
	}
	a.blocked = blocked
	a.prize = prize
	a.fill(receipt, outcome, selected, protection, false)
	a.result = &domain.DrawResult{
		AuditID:           a.rec.ID,
		CaseID:            c.ID,
		UserID:            a.rec.UserID,
		Prize:             prize,
		Category:          prize.Category(),
		Ceiling:           ceiling,
		ProtectionApplied: protection,
		SessionLimited:    limited,
		BalanceAfter:      receipt.BalanceAfter,
	}
	if limited {
		a.result.Decoration = c.DisplayPrizes()
	}
	return a.result, nil
}

// fallback settles the minimum prize in a fresh transaction that outlives the draw's deadline
func (s *service) fallback(ctx context.Context, a *attempt, cause error) (*domain.DrawResult, error) {
	logger.FromContext(ctx).Warn(LogMsgDrawDegraded, "error", cause)

	fctx := context.WithoutCancel(ctx)
	if s.cfg.FallbackTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, s.cfg.FallbackTimeout)
		defer cancel()
	}

	c := a.c
	prize := minimumPrize(s.cfg.Fallback(c.Price))
	var receipt *domain.SettlementReceipt
	err := s.Tx.Do(fctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.Ledger.Settle(ctx, domain.Settlement{
			DrawID:     a.rec.ID,
			UserID:     a.rec.UserID,
			CaseID:     c.ID,
			Price:      c.Price,
			PrizeValue: prize.Value,
			CashCheck: func(net domain.Money) domain.Money {
				return domain.MinMoney(prize.Value, domain.MaxMoney(net, 0))
			},
		})
		return err
	})
	if err != nil {
		if domain.IsRejection(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w (after: %v)", ErrContextFallback, err, cause)
	}

	prize.Value = receipt.Credited
	a.blocked = nil
	a.prize = prize
	a.fill(receipt, domain.OutcomeFallback, prize.Value, true, true)
	a.rec.ErrorDetail = cause.Error()
	a.result = &domain.DrawResult{
		AuditID:           a.rec.ID,
		CaseID:            c.ID,
		UserID:            a.rec.UserID,
		Prize:             prize,
		Category:          prize.Category(),
		Ceiling:           a.rec.Ceiling,
		ProtectionApplied: true,
		Degraded:          true,
		BalanceAfter:      receipt.BalanceAfter,
	}
	return a.result, nil
}

func (a *attempt) fill(r *domain.SettlementReceipt, outcome domain.DrawOutcome, selected domain.Money, protection, degraded bool) {
	a.rec.Outcome = outcome
	a.rec.PrizeID = a.prize.ID
	a.rec.PrizeName = a.prize.Name
	a.rec.PrizeValue = selected
	a.rec.CreditedValue = r.Credited
	a.rec.CashBefore = r.CashBefore
	a.rec.CashAfter = r.CashAfter
	a.rec.ProtectionApplied = protection
	a.rec.Degraded = degraded
}

// record writes the audit entry. It runs detached so an expired draw deadline can not drop it.
func (s *service) record(ctx context.Context, a *attempt) {
	a.rec.LatencyMs = time.Since(a.started).Milliseconds()
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), max(s.cfg.FallbackTimeout, time.Second))
	defer cancel()
	if err := s.Audit.Record(actx, &a.rec, a.blocked); err != nil {
		logger.FromContext(ctx).Error(LogMsgAuditWriteFailed, "draw_id", a.rec.ID, "error", err)
	}
}

func minimumPrize(value domain.Money) domain.AwardedPrize {
	return domain.AwardedPrize{Name: domain.FallbackPrizeName, Value: value, Kind: domain.Monetary{}}
}

func blockedEvents(c *domain.Case, excluded []Exclusion, ceiling, net domain.Money, target domain.Ratio) []domain.BlockedPrizeEvent {
	if len(excluded) == 0 {
		return nil
	}
	out := make([]domain.BlockedPrizeEvent, 0, len(excluded))
	for _, e := range excluded {
		out = append(out, domain.BlockedPrizeEvent{
			CaseID:       c.ID,
			PrizeID:      e.Prize.ID,
			PrizeValue:   e.Prize.Value,
			Ceiling:      ceiling,
			Multiplier:   e.Multiplier,
			Tier:         e.Tier,
			CashPosition: net,
			TargetRatio:  target,
		})
	}
	return out
}
