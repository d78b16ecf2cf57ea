package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// RTPRepository stores the RTP configuration, its history and the emergency switch
type RTPRepository struct {
	base
}

var _ repository.RTP = (*RTPRepository)(nil)

// NewRTPRepository creates a new RTPRepository
func NewRTPRepository(db *pgxpool.Pool) *RTPRepository {
	return &RTPRepository{base: newBase(db)}
}

func (r *RTPRepository) GetRTPConfig(ctx context.Context) (*domain.RTPConfig, error) {
	return r.getConfig(ctx, false)
}

func (r *RTPRepository) GetRTPConfigForUpdate(ctx context.Context) (*domain.RTPConfig, error) {
	return r.getConfig(ctx, true)
}

func (r *RTPRepository) getConfig(ctx context.Context, forUpdate bool) (*domain.RTPConfig, error) {
	q := psql.
		Select("target_ratio_bp", "recommended_ratio_bp", "updated_by", "updated_at", "version").
		From(tableRTPConfig).
		Where(sq.Eq{"config_id": rtpConfigID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	row, err := r.queryRow(ctx, q)
	if err != nil {
		return nil, err
	}

	var cfg domain.RTPConfig
	var target int64
	var recommended *int64
	if err := row.Scan(&target, &recommended, &cfg.UpdatedBy, &cfg.UpdatedAt, &cfg.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRTPConfigNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRTPConfig, err)
	}
	cfg.TargetRatio = domain.Ratio(target)
	if recommended != nil {
		rec := domain.Ratio(*recommended)
		cfg.RecommendedRatio = &rec
	}
	return &cfg, nil
}

// SaveRTPConfig writes the target and bumps the version. cfg.Version is set to the stored one.
func (r *RTPRepository) SaveRTPConfig(ctx context.Context, cfg *domain.RTPConfig) error {
	updatedAt := cfg.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	var recommended *int64
	if cfg.RecommendedRatio != nil {
		v := int64(*cfg.RecommendedRatio)
		recommended = &v
	}

	row, err := r.queryRow(ctx, psql.
		Update(tableRTPConfig).
		Set("target_ratio_bp", int64(cfg.TargetRatio)).
		Set("recommended_ratio_bp", recommended).
		Set("updated_by", cfg.UpdatedBy).
		Set("updated_at", updatedAt).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"config_id": rtpConfigID}).
		Suffix("RETURNING version"))
	if err != nil {
		return err
	}
	if err := row.Scan(&cfg.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRTPConfigNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveRTPConfig, err)
	}
	cfg.UpdatedAt = updatedAt
	return nil
}

func (r *RTPRepository) SetRecommendedRatio(ctx context.Context, ratio domain.Ratio) error {
	_, err := r.exec(ctx, psql.
		Update(tableRTPConfig).
		Set("recommended_ratio_bp", int64(ratio)).
		Where(sq.Eq{"config_id": rtpConfigID}))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetRecommendation, err)
	}
	return nil
}

func (r *RTPRepository) AppendRTPHistory(ctx context.Context, entry *domain.RTPHistoryEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	row, err := r.queryRow(ctx, psql.
		Insert(tableRTPHistory).
		Columns("old_ratio_bp", "new_ratio_bp", "reason", "actor", "source", "created_at").
		Values(int64(entry.OldRatio), int64(entry.NewRatio), entry.Reason, entry.Actor, string(entry.Source), createdAt).
		Suffix("RETURNING history_id"))
	if err != nil {
		return err
	}
	if err := row.Scan(&entry.ID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendRTPHistory, err)
	}
	entry.CreatedAt = createdAt
	return nil
}

// ListRTPHistory returns the newest entries first. A non-positive limit returns everything.
func (r *RTPRepository) ListRTPHistory(ctx context.Context, limit int) ([]domain.RTPHistoryEntry, error) {
	q := psql.
		Select("history_id", "old_ratio_bp", "new_ratio_bp", "reason", "actor", "source", "created_at").
		From(tableRTPHistory).
		OrderBy("created_at DESC", "history_id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRTPHistory, err)
	}
	defer rows.Close()

	var out []domain.RTPHistoryEntry
	for rows.Next() {
		var e domain.RTPHistoryEntry
		var oldRatio, newRatio int64
		var source string
		if err := rows.Scan(&e.ID, &oldRatio, &newRatio, &e.Reason, &e.Actor, &source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRTPHistory, err)
		}
		e.OldRatio = domain.Ratio(oldRatio)
		e.NewRatio = domain.Ratio(newRatio)
		e.Source = domain.RTPChangeSource(source)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RTPRepository) GetEmergencyState(ctx context.Context) (*domain.EmergencyState, error) {
	row, err := r.queryRow(ctx, psql.
		Select("active", "reason", "actor", "changed_at").
		From(tableEmergencyState).
		Where(sq.Eq{"state_id": emergencyStateID}))
	if err != nil {
		return nil, err
	}
	var st domain.EmergencyState
	if err := row.Scan(&st.Active, &st.Reason, &st.Actor, &st.ChangedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Missing row means the switch was never touched
			return &domain.EmergencyState{}, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEmergencyState, err)
	}
	return &st, nil
}

func (r *RTPRepository) SaveEmergencyState(ctx context.Context, state *domain.EmergencyState) error {
	changedAt := state.ChangedAt
	if changedAt.IsZero() {
		changedAt = time.Now()
	}
	_, err := r.exec(ctx, psql.
		Insert(tableEmergencyState).
		Columns("state_id", "active", "reason", "actor", "changed_at").
		Values(emergencyStateID, state.Active, state.Reason, state.Actor, changedAt).
		Suffix("ON CONFLICT (state_id) DO UPDATE SET active = EXCLUDED.active, reason = EXCLUDED.reason, actor = EXCLUDED.actor, changed_at = EXCLUDED.changed_at"))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveEmergencyState, err)
	}
	return nil
}

func (r *RTPRepository) AppendEmergencyHistory(ctx context.Context, entry *domain.EmergencyHistoryEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	row, err := r.queryRow(ctx, psql.
		Insert(tableEmergencyHistory).
		Columns("active", "reason", "actor", "created_at").
		Values(entry.Active, entry.Reason, entry.Actor, createdAt).
		Suffix("RETURNING history_id"))
	if err != nil {
		return err
	}
	if err := row.Scan(&entry.ID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAppendEmergencyHist, err)
	}
	entry.CreatedAt = createdAt
	return nil
}

func (r *RTPRepository) ListEmergencyHistory(ctx context.Context, limit int) ([]domain.EmergencyHistoryEntry, error) {
	q := psql.
		Select("history_id", "active", "reason", "actor", "created_at").
		From(tableEmergencyHistory).
		OrderBy("created_at DESC", "history_id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListEmergencyHist, err)
	}
	defer rows.Close()

	var out []domain.EmergencyHistoryEntry
	for rows.Next() {
		var e domain.EmergencyHistoryEntry
		if err := rows.Scan(&e.ID, &e.Active, &e.Reason, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListEmergencyHist, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
