package domain

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind classifies a money movement.
type MovementKind string

const (
	MovementDeposit     MovementKind = "deposit"
	MovementWithdrawal  MovementKind = "withdrawal"
	MovementCommission  MovementKind = "commission"
	MovementPurchase    MovementKind = "purchase"
	MovementPrize       MovementKind = "prize"
	MovementTestFunding MovementKind = "test_funding"
)

// MoneyMovement is an immutable balance-affecting event. Amount is always positive; the kind
// decides the direction.
type MoneyMovement struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Kind      MovementKind `json:"kind"`
	Amount    Money        `json:"amount"`
	CaseID    *int64       `json:"case_id,omitempty"`
	DrawID    *uuid.UUID   `json:"draw_id,omitempty"`
	LinkedID  *uuid.UUID   `json:"linked_id,omitempty"`
	Demo      bool         `json:"demo"`
	CreatedAt time.Time    `json:"created_at"`
}

// CashPosition is the operator's net cash, derived from real-account movements.
type CashPosition struct {
	Deposits    Money `json:"deposits"`
	TestFunding Money `json:"test_funding"`
	Withdrawals Money `json:"withdrawals"`
	Commissions Money `json:"commissions"`
	PrizesPaid  Money `json:"prizes_paid"`
	Purchases   Money `json:"purchases"`
}

// Net returns deposits + test funding − withdrawals − commissions − prizes paid.
func (c CashPosition) Net() Money {
	return c.Deposits + c.TestFunding - c.Withdrawals - c.Commissions - c.PrizesPaid
}

// Add accumulates one movement into the position. Demo movements are ignored.
func (c *CashPosition) Add(m MoneyMovement) {
	if m.Demo {
		return
	}
	switch m.Kind {
	case MovementDeposit:
		c.Deposits += m.Amount
	case MovementTestFunding:
		c.TestFunding += m.Amount
	case MovementWithdrawal:
		c.Withdrawals += m.Amount
	case MovementCommission:
		c.Commissions += m.Amount
	case MovementPrize:
		c.PrizesPaid += m.Amount
	case MovementPurchase:
		c.Purchases += m.Amount
	}
}

// CashFlow is the movement totals over a window.
type CashFlow struct {
	Since   time.Time    `json:"since"`
	Until   time.Time    `json:"until"`
	Totals  CashPosition `json:"totals"`
	NetFlow Money        `json:"net_flow"`
	Draws   int64        `json:"draws"`
}

// CashPositionStats is the dashboard view of the cash position.
type CashPositionStats struct {
	Current          CashPosition `json:"current"`
	NetCash          Money        `json:"net_cash"`
	NetCashFormatted string       `json:"net_cash_formatted"`
	Last24h          CashFlow     `json:"last_24h"`
	Last7d           CashFlow     `json:"last_7d"`
	Last30d          CashFlow     `json:"last_30d"`
	AvgDailyNet7d    Money        `json:"avg_daily_net_7d"`
	ObservedRTP7d    Ratio        `json:"observed_rtp_7d_bp"`
	GeneratedAt      time.Time    `json:"generated_at"`
}

// Account is the ledger view of a user.
type Account struct {
	ID      uuid.UUID `json:"id"`
	Active  bool      `json:"active"`
	Banned  bool      `json:"banned"`
	Demo    bool      `json:"demo"`
	Balance Money     `json:"balance"`
}

// Settlement is the financial effect of one draw.
//
// When CashCheck is set the writer takes the cash lock after locking the account and credits
// CashCheck(net) instead of PrizeValue.
type Settlement struct {
	DrawID     uuid.UUID
	UserID     uuid.UUID
	CaseID     int64
	Price      Money
	PrizeValue Money
	CashCheck  func(net Money) Money
}

// SettlementReceipt is returned by a successful settlement.
type SettlementReceipt struct {
	PurchaseID    uuid.UUID `json:"purchase_id"`
	PrizeID       uuid.UUID `json:"prize_movement_id"`
	Credited      Money     `json:"credited"`
	CashBefore    Money     `json:"cash_before"`
	CashAfter     Money     `json:"cash_after"`
	BalanceBefore Money     `json:"balance_before"`
	BalanceAfter  Money     `json:"balance_after"`
	Demo          bool      `json:"demo"`
	SettledAt     time.Time `json:"settled_at"`
}
