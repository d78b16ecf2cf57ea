// Package catalog reads cases from the externally owned catalog and normalizes their prizes into
// the closed prize variant exactly once per load.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Config tunes normalization and caching
type Config struct {
	DisplayOnlyThreshold domain.Money
	CacheTTL             time.Duration
	CacheSize            int
}

// Service provides normalized, cached case lookups
type Service interface {
	GetCase(ctx context.Context, caseID int64) (*domain.Case, error)
	Invalidate(caseID int64)
	InvalidateAll()
}

type service struct {
	repo  repository.Catalog
	cfg   Config
	cache *caseCache
}

// NewService creates a catalog service. A zero CacheTTL disables caching.
func NewService(repo repository.Catalog, cfg Config) Service {
	s := &service{repo: repo, cfg: cfg}
	if cfg.CacheTTL > 0 {
		s.cache = newCaseCache(max(cfg.CacheSize, 1), cfg.CacheTTL)
	}
	return s
}

func (s *service) GetCase(ctx context.Context, caseID int64) (*domain.Case, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		if c, ok := s.cache.Get(caseID); ok {
			log.Debug(LogMsgCaseCacheHit, "case_id", caseID)
			return c, nil
		}
	}

	raw, err := s.repo.GetCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetCase, err)
	}

	c := domain.NormalizeCase(*raw, s.cfg.DisplayOnlyThreshold)
	s.warnAnomalies(ctx, raw, c)

	if s.cache != nil {
		s.cache.Set(c)
	}
	log.Debug(LogMsgCaseCacheRefilled, "case_id", caseID, "prizes", len(c.Prizes))
	return c, nil
}

// warnAnomalies logs catalog problems that normalization repaired. They never fail a draw.
func (s *service) warnAnomalies(ctx context.Context, raw *domain.CatalogCase, c *domain.Case) {
	log := logger.FromContext(ctx)
	for i, rp := range raw.Prizes {
		if !domain.ValidWeight(rp.Weight) {
			log.Warn(LogMsgInvalidWeight, "case_id", raw.ID, "prize_id", rp.ID, "weight", rp.Weight)
		}
		if d, ok := c.Prizes[i].Kind.(domain.DisplayOnly); ok && d.Reason == domain.DisplayReasonOverThreshold {
			log.Warn(LogMsgPrizeDemoted,
				"case_id", raw.ID,
				"prize_id", rp.ID,
				"value", rp.Value.String(),
				"threshold", s.cfg.DisplayOnlyThreshold.String())
		}
	}
}

func (s *service) Invalidate(caseID int64) {
	if s.cache != nil {
		s.cache.Invalidate(caseID)
	}
}

func (s *service) InvalidateAll() {
	if s.cache != nil {
		s.cache.Clear()
	}
}
