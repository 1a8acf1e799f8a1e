package flow

import (
	"github.com/cortexdiag/cortex/internal/store"
	"github.com/cortexdiag/cortex/internal/temporal"
)

// Stage is where a session currently stands in the diagnostic journey.
type Stage string

const (
	StagePhase1              Stage = "phase1"
	StagePhase1Tie           Stage = "phase1-tie"
	StagePhase1Result        Stage = "phase1-result"
	StagePhase2              Stage = "phase2"
	StagePhase2Result        Stage = "phase2-result"
	StageProtocolReflections Stage = "protocol-reflections"
	StageProtocolActions     Stage = "protocol-actions"
	StageBlocked45           Stage = "blocked-45"
	StageBlocked90           Stage = "blocked-90"
	StageCompleted           Stage = "completed"
)

// DeriveInput is everything stage derivation looks at. It is built from
// persisted state so a fresh process lands on the same stage as the one
// that wrote it.
type DeriveInput struct {
	Cycle           *store.DiagnosticCycle
	Phase1Answered  int
	Phase1Total     int
	Phase2Answered  int
	ProtocolStarted bool
	ReflectionsDone bool
	Rules           temporal.Rules
}

// DeriveStage maps cycle status plus answer progress onto a stage. It is a
// pure function: every (re)initialization routes through it instead of
// trusting a stored stage value.
func DeriveStage(in DeriveInput) Stage {
	if in.Cycle == nil {
		return StagePhase1
	}

	switch in.Cycle.Status {
	case store.StatusPhase1InProgress:
		return StagePhase1

	case store.StatusPhase1TiePending:
		return StagePhase1Tie

	case store.StatusPhase2InProgress:
		if in.Phase2Answered == 0 {
			return StagePhase1Result
		}
		return StagePhase2

	case store.StatusProtocolInProgress:
		if !in.ProtocolStarted {
			return StagePhase2Result
		}
		if !in.ReflectionsDone {
			return StageProtocolReflections
		}
		return StageProtocolActions

	case store.StatusProtocolCompleted:
		if in.Rules.CanRunPhase2Reevaluation {
			return StagePhase2
		}
		if in.Rules.CanStartNewCycle {
			return StageCompleted
		}
		return StageBlocked45

	case store.StatusReeval45Completed:
		if in.Rules.CanStartNewCycle {
			return StageCompleted
		}
		return StageBlocked90
	}

	return StagePhase1
}
