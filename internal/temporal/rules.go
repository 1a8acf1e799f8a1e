// Package temporal computes the time-gated reevaluation rules of a
// diagnostic cycle: the 45-day refined-reevaluation window measured from
// protocol completion and the 90-day new-diagnosis window measured from
// phase-1 completion. Everything is a pure function of three optional
// timestamps and the supplied instant.
package temporal

import (
	"fmt"
	"time"
)

const (
	// ReevalWindowDays is the wait between protocol completion and the
	// refined phase-2 reevaluation.
	ReevalWindowDays = 45

	// NewCycleWindowDays is the wait between phase-1 completion and a new
	// full structural diagnosis.
	NewCycleWindowDays = 90
)

// Gate describes a single time lock. AvailableAt is nil while the gate's
// prerequisite step has not been completed; DaysRemaining is meaningful
// only when AvailableAt is set and is clamped at zero once the date passes.
type Gate struct {
	Locked        bool
	DaysRemaining int
	AvailableAt   *time.Time
	Message       string
}

// Rules is the full temporal evaluation for a cycle.
type Rules struct {
	Phase2Reevaluation     Gate
	NewStructuralDiagnosis Gate

	// CanRunPhase2Reevaluation is true only in the window between the two
	// gates: protocol done, 45-day reevaluation not yet run, 45-day gate
	// open and 90-day gate still closed.
	CanRunPhase2Reevaluation bool

	// CanStartNewCycle is true whenever the protocol is done and the
	// 90-day gate is open, whether or not the reevaluation ran.
	CanStartNewCycle bool
}

// Compute evaluates both gates at the given instant.
func Compute(phase1CompletedAt, protocolCompletedAt, reeval45CompletedAt *time.Time, now time.Time) Rules {
	reeval := computeGate(protocolCompletedAt, ReevalWindowDays, now,
		"Reavaliação disponível após concluir o Protocolo de Ação.",
		"Reavaliação disponível em %s.",
		"Reavaliação liberada.")

	newDiag := computeGate(phase1CompletedAt, NewCycleWindowDays, now,
		"Novo diagnóstico estrutural disponível após concluir a Fase 1.",
		"Novo diagnóstico estrutural disponível em %s.",
		"Novo diagnóstico estrutural liberado.")

	return Rules{
		Phase2Reevaluation:     reeval,
		NewStructuralDiagnosis: newDiag,
		CanRunPhase2Reevaluation: protocolCompletedAt != nil &&
			reeval45CompletedAt == nil &&
			!reeval.Locked &&
			newDiag.Locked,
		CanStartNewCycle: protocolCompletedAt != nil && !newDiag.Locked,
	}
}

func computeGate(completedAt *time.Time, windowDays int, now time.Time, missingMsg, countdownMsg, openMsg string) Gate {
	if completedAt == nil {
		return Gate{Locked: true, Message: missingMsg}
	}

	availableAt := completedAt.AddDate(0, 0, windowDays)
	remaining := daysUntil(availableAt, now)
	gate := Gate{
		Locked:        remaining > 0,
		DaysRemaining: remaining,
		AvailableAt:   &availableAt,
	}
	if remaining > 0 {
		gate.Message = fmt.Sprintf(countdownMsg, dayLabel(remaining))
	} else {
		gate.Message = openMsg
	}
	return gate
}

// daysUntil counts whole days left until target, rounding partial days up
// and clamping at zero once the target has passed.
func daysUntil(target, now time.Time) int {
	diff := target.Sub(now)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func dayLabel(days int) string {
	if days == 1 {
		return "1 dia"
	}
	return fmt.Sprintf("%d dias", days)
}

// ParseTimestamp parses an inbound ISO-8601 timestamp defensively: empty or
// malformed values yield nil, never an error. Collaborators deliver
// timestamps as strings and an unreadable one is treated as absent.
func ParseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
