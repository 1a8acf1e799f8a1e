package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cortexdiag/cortex/internal/logger"
)

// ResponseRepo provides access to phase-1 and phase-2 answer rows.
type ResponseRepo interface {
	// ListPhase1 returns every phase-1 answer recorded for a cycle.
	ListPhase1(ctx context.Context, cycleID uuid.UUID) ([]*Phase1Response, error)

	// ListPhase2 returns every phase-2 answer recorded for a cycle.
	ListPhase2(ctx context.Context, cycleID uuid.UUID) ([]*Phase2Response, error)

	// UpsertPhase1 writes a phase-1 answer, replacing an existing answer
	// for the same (cycle, pillar, question) key.
	UpsertPhase1(ctx context.Context, resp *Phase1Response) error

	// UpsertPhase2 writes a phase-2 answer, replacing an existing answer
	// for the same (cycle, questionType, question) key.
	UpsertPhase2(ctx context.Context, resp *Phase2Response) error
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *responseRepo) ListPhase1(ctx context.Context, cycleID uuid.UUID) ([]*Phase1Response, error) {
	var responses []*Phase1Response
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("pillar, question_number").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("list phase-1 responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepo) ListPhase2(ctx context.Context, cycleID uuid.UUID) ([]*Phase2Response, error) {
	var responses []*Phase2Response
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("question_type, question_number").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("list phase-2 responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepo) UpsertPhase1(ctx context.Context, resp *Phase1Response) error {
	var existing Phase1Response
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND pillar = ? AND question_number = ?",
			resp.CycleID, resp.Pillar, resp.QuestionNumber).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Score = resp.Score
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("update phase-1 response: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(resp).Error; err != nil {
			return fmt.Errorf("create phase-1 response: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("lookup phase-1 response: %w", err)
	}
}

func (r *responseRepo) UpsertPhase2(ctx context.Context, resp *Phase2Response) error {
	var existing Phase2Response
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND question_type = ? AND question_number = ?",
			resp.CycleID, resp.QuestionType, resp.QuestionNumber).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Score = resp.Score
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("update phase-2 response: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(resp).Error; err != nil {
			return fmt.Errorf("create phase-2 response: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("lookup phase-2 response: %w", err)
	}
}
