package ledger

import (
	"context"

	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/metrics"
)

// CashGaugeJob refreshes the net cash gauge
type CashGaugeJob struct {
	Reader Reader
}

func (j *CashGaugeJob) Name() string { return "cash_gauge" }

func (j *CashGaugeJob) Process(ctx context.Context) error {
	pos, err := j.Reader.CashPosition(ctx)
	if err != nil {
		return err
	}
	metrics.SetNetCashPosition(int64(pos.Net()))
	logger.FromContext(ctx).Debug(LogMsgCashGaugeReset, "net_cash", pos.Net().String())
	return nil
}
