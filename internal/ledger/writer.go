package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Writer settles draws. Settlement either fully applies or leaves no trace.
type Writer interface {
	Settle(ctx context.Context, s domain.Settlement) (*domain.SettlementReceipt, error)
}

type writer struct {
	repo repository.Ledger
	txm  repository.TxManager
	now  func() time.Time
}

// NewWriter creates a ledger writer. Settle joins a transaction already carried by ctx.
func NewWriter(repo repository.Ledger, txm repository.TxManager) Writer {
	return &writer{repo: repo, txm: txm, now: time.Now}
}

func (w *writer) Settle(ctx context.Context, s domain.Settlement) (*domain.SettlementReceipt, error) {
	if s.Price < 0 || s.PrizeValue < 0 {
		return nil, domain.ErrNegativeAmount
	}

	var receipt *domain.SettlementReceipt
	err := w.txm.Do(ctx, func(ctx context.Context) error {
		acc, err := w.repo.GetAccountForUpdate(ctx, s.UserID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextLockAccount, err)
		}
		if acc.Balance < s.Price {
			return domain.ErrInsufficientBalance
		}

		pos, err := w.repo.LockCashPosition(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextLockCash, err)
		}
		net := pos.Net()

		// Demo payouts never reach real cash, so only real accounts are rechecked
		credited := s.PrizeValue
		if s.CashCheck != nil && !acc.Demo {
			credited = s.CashCheck(net)
			if credited < 0 {
				credited = 0
			}
			if credited != s.PrizeValue {
				logger.FromContext(ctx).Warn(LogMsgCreditReduced,
					"draw_id", s.DrawID,
					"selected", s.PrizeValue.String(),
					"credited", credited.String(),
					"net_cash", net.String())
			}
		}

		now := w.now()
		caseID := s.CaseID
		drawID := s.DrawID
		purchase := domain.MoneyMovement{
			ID:        uuid.New(),
			UserID:    s.UserID,
			Kind:      domain.MovementPurchase,
			Amount:    s.Price,
			CaseID:    &caseID,
			DrawID:    &drawID,
			Demo:      acc.Demo,
			CreatedAt: now,
		}
		prize := domain.MoneyMovement{
			ID:        uuid.New(),
			UserID:    s.UserID,
			Kind:      domain.MovementPrize,
			Amount:    credited,
			CaseID:    &caseID,
			DrawID:    &drawID,
			LinkedID:  &purchase.ID,
			Demo:      acc.Demo,
			CreatedAt: now,
		}
		purchase.LinkedID = &prize.ID

		if err := w.repo.InsertMovements(ctx, purchase, prize); err != nil {
			return fmt.Errorf("%s: %w", ErrContextInsertMovement, err)
		}

		after := acc.Balance - s.Price + credited
		if err := w.repo.UpdateBalance(ctx, s.UserID, after); err != nil {
			return fmt.Errorf("%s: %w", ErrContextUpdateBalance, err)
		}

		cashAfter := net
		if !acc.Demo {
			cashAfter = net - credited
		}
		receipt = &domain.SettlementReceipt{
			PurchaseID:    purchase.ID,
			PrizeID:       prize.ID,
			Credited:      credited,
			CashBefore:    net,
			CashAfter:     cashAfter,
			BalanceBefore: acc.Balance,
			BalanceAfter:  after,
			Demo:          acc.Demo,
			SettledAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug(LogMsgSettled,
		"draw_id", s.DrawID,
		"user_id", s.UserID,
		"price", s.Price.String(),
		"credited", receipt.Credited.String(),
		"balance_after", receipt.BalanceAfter.String())
	return receipt, nil
}
