// Package checkpoint persists in-flight questionnaire answers to a local
// JSON file so an interrupted session can resume where it stopped. The
// snapshot is advisory: loading failures degrade to "no checkpoint" and
// never block the flow.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cortexdiag/cortex/internal/logger"
)

// Checkpoint is a snapshot of unsaved session progress for one cycle.
// Answer maps are keyed the same way responses are keyed in the database:
// "pillar:questionNumber" for phase 1 and "questionType:questionNumber"
// for phase 2.
type Checkpoint struct {
	CycleID       uuid.UUID      `json:"cycle_id"`
	Phase1Answers map[string]int `json:"phase1_answers,omitempty"`
	Phase2Answers map[string]int `json:"phase2_answers,omitempty"`
	Reflections   []string       `json:"reflections,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Store reads and writes checkpoint files under a base directory, one file
// per user+niche pair.
type Store struct {
	dir string
	log *logger.Logger
}

func NewStore(dir string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{dir: dir, log: log.With("component", "checkpoint")}
}

func (s *Store) path(userID, nicheID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.json", sanitize(userID), sanitize(nicheID)))
}

// sanitize keeps the filename safe when IDs contain path characters.
func sanitize(id string) string {
	out := []rune(id)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', '.':
			out[i] = '_'
		}
	}
	return string(out)
}

// Load returns the checkpoint for a user+niche pair, or nil when no usable
// checkpoint exists. A corrupt file is discarded and logged, not returned
// as an error.
func (s *Store) Load(userID, nicheID string) *Checkpoint {
	raw, err := os.ReadFile(s.path(userID, nicheID))
	if err != nil {
		return nil
	}
	var cp Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		s.log.Warn("discarding corrupt checkpoint", "user_id", userID, "error", err)
		_ = os.Remove(s.path(userID, nicheID))
		return nil
	}
	if cp.CycleID == uuid.Nil {
		return nil
	}
	return &cp
}

// Save writes the checkpoint atomically (temp file then rename).
func (s *Store) Save(userID, nicheID string, cp *Checkpoint) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	cp.UpdatedAt = time.Now().UTC()
	raw, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	target := s.path(userID, nicheID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint file for a user+niche pair. Missing files
// are not an error.
func (s *Store) Clear(userID, nicheID string) error {
	err := os.Remove(s.path(userID, nicheID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}

// MergeAnswers decides between persisted answers and checkpoint answers for
// the same cycle. The checkpoint wins only when it is strictly further
// along; on an equal count the persisted set is the source of truth.
func MergeAnswers(persisted, fromCheckpoint map[string]int) map[string]int {
	if len(fromCheckpoint) > len(persisted) {
		return fromCheckpoint
	}
	return persisted
}

// UsableFor reports whether the checkpoint belongs to the given cycle.
// Checkpoints from a previous cycle are stale and must be ignored.
func (cp *Checkpoint) UsableFor(cycleID uuid.UUID) bool {
	return cp != nil && cp.CycleID == cycleID
}
