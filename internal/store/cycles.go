package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cortexdiag/cortex/internal/logger"
)

// CycleRepo provides access to diagnostic cycle records.
type CycleRepo interface {
	// LatestByUserNiche returns the highest-numbered cycle for a user+niche,
	// or nil if none exist.
	LatestByUserNiche(ctx context.Context, userID, nicheID string) (*DiagnosticCycle, error)

	// GetByID fetches one cycle scoped to its owner.
	GetByID(ctx context.Context, id uuid.UUID, userID, nicheID string) (*DiagnosticCycle, error)

	// Create inserts a new cycle.
	Create(ctx context.Context, cycle *DiagnosticCycle) error

	// Update persists changed fields of the cycle row.
	Update(ctx context.Context, cycle *DiagnosticCycle) error

	// MarkReeval90 stamps the 90-day reevaluation timestamp on a cycle,
	// done right before its successor cycle is created.
	MarkReeval90(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListByUserNiche returns all cycles for a user+niche, newest first.
	ListByUserNiche(ctx context.Context, userID, nicheID string) ([]*DiagnosticCycle, error)
}

type cycleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *cycleRepo) LatestByUserNiche(ctx context.Context, userID, nicheID string) (*DiagnosticCycle, error) {
	var cycle DiagnosticCycle
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND niche_id = ?", userID, nicheID).
		Order("cycle_number DESC").
		First(&cycle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest cycle: %w", err)
	}
	return &cycle, nil
}

func (r *cycleRepo) GetByID(ctx context.Context, id uuid.UUID, userID, nicheID string) (*DiagnosticCycle, error) {
	var cycle DiagnosticCycle
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND niche_id = ?", id, userID, nicheID).
		First(&cycle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query cycle: %w", err)
	}
	return &cycle, nil
}

func (r *cycleRepo) Create(ctx context.Context, cycle *DiagnosticCycle) error {
	if err := r.db.WithContext(ctx).Create(cycle).Error; err != nil {
		return fmt.Errorf("create cycle: %w", err)
	}
	r.log.Debug("cycle created", "cycle_id", cycle.ID, "cycle_number", cycle.CycleNumber)
	return nil
}

func (r *cycleRepo) Update(ctx context.Context, cycle *DiagnosticCycle) error {
	if err := r.db.WithContext(ctx).Save(cycle).Error; err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}
	return nil
}

func (r *cycleRepo) MarkReeval90(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&DiagnosticCycle{}).
		Where("id = ?", id).
		Update("reeval90_completed_at", at).Error
	if err != nil {
		return fmt.Errorf("mark reeval-90: %w", err)
	}
	return nil
}

func (r *cycleRepo) ListByUserNiche(ctx context.Context, userID, nicheID string) ([]*DiagnosticCycle, error) {
	var cycles []*DiagnosticCycle
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND niche_id = ?", userID, nicheID).
		Order("cycle_number DESC").
		Find(&cycles).Error
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}
