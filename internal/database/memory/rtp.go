package memory

import (
	"context"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

var _ repository.RTP = (*Store)(nil)

func (s *Store) GetRTPConfig(ctx context.Context) (*domain.RTPConfig, error) {
	var out domain.RTPConfig
	err := s.locked(ctx, "GetRTPConfig", func() error {
		out = s.rtp
		return nil
	})
	return &out, err
}

func (s *Store) GetRTPConfigForUpdate(ctx context.Context) (*domain.RTPConfig, error) {
	var out domain.RTPConfig
	err := s.locked(ctx, "GetRTPConfigForUpdate", func() error {
		out = s.rtp
		return nil
	})
	return &out, err
}

func (s *Store) SaveRTPConfig(ctx context.Context, cfg *domain.RTPConfig) error {
	return s.locked(ctx, "SaveRTPConfig", func() error {
		next := *cfg
		next.Version = s.rtp.Version + 1
		if next.UpdatedAt.IsZero() {
			next.UpdatedAt = s.now()
		}
		s.rtp = next
		cfg.Version = next.Version
		return nil
	})
}

func (s *Store) SetRecommendedRatio(ctx context.Context, ratio domain.Ratio) error {
	return s.locked(ctx, "SetRecommendedRatio", func() error {
		s.rtp.RecommendedRatio = &ratio
		return nil
	})
}

func (s *Store) AppendRTPHistory(ctx context.Context, entry *domain.RTPHistoryEntry) error {
	return s.locked(ctx, "AppendRTPHistory", func() error {
		e := *entry
		e.ID = s.id()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now()
		}
		s.rtpHistory = append(s.rtpHistory, e)
		*entry = e
		return nil
	})
}

func (s *Store) ListRTPHistory(ctx context.Context, limit int) ([]domain.RTPHistoryEntry, error) {
	var out []domain.RTPHistoryEntry
	err := s.locked(ctx, "ListRTPHistory", func() error {
		for i := len(s.rtpHistory) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			out = append(out, s.rtpHistory[i])
		}
		return nil
	})
	return out, err
}

func (s *Store) GetEmergencyState(ctx context.Context) (*domain.EmergencyState, error) {
	var out domain.EmergencyState
	err := s.locked(ctx, "GetEmergencyState", func() error {
		out = s.emergency
		return nil
	})
	return &out, err
}

func (s *Store) SaveEmergencyState(ctx context.Context, state *domain.EmergencyState) error {
	return s.locked(ctx, "SaveEmergencyState", func() error {
		s.emergency = *state
		return nil
	})
}

func (s *Store) AppendEmergencyHistory(ctx context.Context, entry *domain.EmergencyHistoryEntry) error {
	return s.locked(ctx, "AppendEmergencyHistory", func() error {
		e := *entry
		e.ID = s.id()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now()
		}
		s.emergencyHistory = append(s.emergencyHistory, e)
		*entry = e
		return nil
	})
}

func (s *Store) ListEmergencyHistory(ctx context.Context, limit int) ([]domain.EmergencyHistoryEntry, error) {
	var out []domain.EmergencyHistoryEntry
	err := s.locked(ctx, "ListEmergencyHistory", func() error {
		for i := len(s.emergencyHistory) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			out = append(out, s.emergencyHistory[i])
		}
		return nil
	})
	return out, err
}
