package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Cycle lifecycle status values.
const (
	StatusPhase1InProgress   = "phase1_in_progress"
	StatusPhase1TiePending   = "phase1_tie_pending"
	StatusPhase2InProgress   = "phase2_in_progress"
	StatusProtocolInProgress = "protocol_in_progress"
	StatusProtocolCompleted  = "protocol_completed"
	StatusReeval45Completed  = "reeval_45_completed"
)

// DiagnosticCycle is one full diagnostic iteration for a user+niche pair.
// Pillar percentages and the critical/strong pillar are written only once
// every phase-1 question of the cycle is answered.
type DiagnosticCycle struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"index:idx_cycles_user_niche;not null"`
	NicheID     string    `gorm:"index:idx_cycles_user_niche;not null"`
	CycleNumber int       `gorm:"not null"`
	Status      string    `gorm:"not null"`

	PillarClarity   int
	PillarStructure int
	PillarExecution int
	PillarEmotional int
	GeneralIndex    int

	Phase2TechnicalIndex int
	Phase2StateIndex     int
	Phase2GeneralIndex   int

	CriticalPillar string
	StrongPillar   string

	Phase1CompletedAt   *time.Time
	Phase2CompletedAt   *time.Time
	ProtocolCompletedAt *time.Time
	Reeval45CompletedAt *time.Time
	Reeval90CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *DiagnosticCycle) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Phase1Response is one answered phase-1 question. Superseded answers for
// the same (cycle, pillar, question) key update the row in place.
type Phase1Response struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CycleID        uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_p1_natural;not null"`
	UserID         string    `gorm:"not null"`
	NicheID        string    `gorm:"not null"`
	Pillar         string    `gorm:"uniqueIndex:idx_p1_natural;not null"`
	QuestionNumber int       `gorm:"uniqueIndex:idx_p1_natural;not null"`
	Score          int       `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *Phase1Response) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Phase2Response is one answered refined-assessment question. QuestionType
// is "technical:<pillar>" for technical questions and "state:general" for
// state questions.
type Phase2Response struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CycleID        uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_p2_natural;not null"`
	UserID         string    `gorm:"not null"`
	NicheID        string    `gorm:"not null"`
	QuestionType   string    `gorm:"uniqueIndex:idx_p2_natural;not null"`
	QuestionNumber int       `gorm:"uniqueIndex:idx_p2_natural;not null"`
	Score          int       `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *Phase2Response) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ProtocolProgress holds one cycle's action checklists and reflections.
// Once CompletedAt is set the record is terminal.
type ProtocolProgress struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CycleID      uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null"`
	UserID       string         `gorm:"not null"`
	NicheID      string         `gorm:"not null"`
	Block1       datatypes.JSON `gorm:"column:block1_actions"`
	Block2       datatypes.JSON `gorm:"column:block2_actions"`
	Block3       datatypes.JSON `gorm:"column:block3_actions"`
	Reflections  datatypes.JSON
	CurrentBlock int `gorm:"not null;default:1"`
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *ProtocolProgress) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ActionList decodes a JSON action column. Malformed or absent data yields
// nil, which downstream normalization treats as an untouched block.
func ActionList(raw datatypes.JSON) []bool {
	if len(raw) == 0 {
		return nil
	}
	var actions []bool
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil
	}
	return actions
}

// ReflectionList decodes the reflections JSON column with the same
// defensive policy as ActionList.
func ReflectionList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var reflections []string
	if err := json.Unmarshal(raw, &reflections); err != nil {
		return nil
	}
	return reflections
}

// MustJSON encodes a value into a JSON column. Only used with []bool and
// []string, which cannot fail to marshal.
func MustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(raw)
}
