package rtp

import (
	"context"

	"github.com/osse101/CaseVault_Go/internal/logger"
)

// RecommendJob refreshes the stored recommendation. It never changes the target.
type RecommendJob struct {
	Service Service
}

func (j *RecommendJob) Name() string { return "rtp_recommend" }

func (j *RecommendJob) Process(ctx context.Context) error {
	rec, err := j.Service.Recommend(ctx)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgRecommendJobDone, "ratio", rec.Ratio.String(), "band", rec.Band)
	return nil
}
