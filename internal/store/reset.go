package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ResetUserNiche deletes every diagnostic record belonging to a user+niche
// pair: responses, protocol progress and the cycles themselves.
func (s *Store) ResetUserNiche(ctx context.Context, userID, nicheID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := "user_id = ? AND niche_id = ?"
		if err := tx.Where(scope, userID, nicheID).Delete(&Phase1Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where(scope, userID, nicheID).Delete(&Phase2Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where(scope, userID, nicheID).Delete(&ProtocolProgress{}).Error; err != nil {
			return err
		}
		return tx.Where(scope, userID, nicheID).Delete(&DiagnosticCycle{}).Error
	})
	if err != nil {
		return fmt.Errorf("reset user data: %w", err)
	}
	s.log.Info("diagnostic data reset", "user_id", userID, "niche_id", nicheID)
	return nil
}
