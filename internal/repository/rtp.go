package repository

import (
	"context"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// RTP defines storage for the versioned RTP configuration and the emergency switch
type RTP interface {
	GetRTPConfig(ctx context.Context) (*domain.RTPConfig, error)

	// GetRTPConfigForUpdate row-locks the config inside the surrounding transaction
	GetRTPConfigForUpdate(ctx context.Context) (*domain.RTPConfig, error)

	// SaveRTPConfig writes the config, bumping its version
	SaveRTPConfig(ctx context.Context, cfg *domain.RTPConfig) error

	// SetRecommendedRatio stores the latest recommendation without changing the target
	SetRecommendedRatio(ctx context.Context, ratio domain.Ratio) error

	AppendRTPHistory(ctx context.Context, entry *domain.RTPHistoryEntry) error
	ListRTPHistory(ctx context.Context, limit int) ([]domain.RTPHistoryEntry, error)

	GetEmergencyState(ctx context.Context) (*domain.EmergencyState, error)
	SaveEmergencyState(ctx context.Context, state *domain.EmergencyState) error
	AppendEmergencyHistory(ctx context.Context, entry *domain.EmergencyHistoryEntry) error
	ListEmergencyHistory(ctx context.Context, limit int) ([]domain.EmergencyHistoryEntry, error)
}
