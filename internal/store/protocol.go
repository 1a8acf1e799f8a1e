package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cortexdiag/cortex/internal/logger"
)

// ProtocolRepo provides access to protocol progress records. There is at
// most one record per cycle.
type ProtocolRepo interface {
	// GetByCycleID returns the cycle's progress record, or nil when the
	// protocol was never started.
	GetByCycleID(ctx context.Context, cycleID uuid.UUID) (*ProtocolProgress, error)

	// Create inserts the cycle's progress record.
	Create(ctx context.Context, progress *ProtocolProgress) error

	// Update persists changed fields of the progress record.
	Update(ctx context.Context, progress *ProtocolProgress) error
}

type protocolRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *protocolRepo) GetByCycleID(ctx context.Context, cycleID uuid.UUID) (*ProtocolProgress, error) {
	var progress ProtocolProgress
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query protocol progress: %w", err)
	}
	return &progress, nil
}

func (r *protocolRepo) Create(ctx context.Context, progress *ProtocolProgress) error {
	if err := r.db.WithContext(ctx).Create(progress).Error; err != nil {
		return fmt.Errorf("create protocol progress: %w", err)
	}
	r.log.Debug("protocol started", "cycle_id", progress.CycleID)
	return nil
}

func (r *protocolRepo) Update(ctx context.Context, progress *ProtocolProgress) error {
	if err := r.db.WithContext(ctx).Save(progress).Error; err != nil {
		return fmt.Errorf("update protocol progress: %w", err)
	}
	return nil
}
