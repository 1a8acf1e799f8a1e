// Package scoring converts raw questionnaire answers into pillar
// percentages, maturity classifications and critical-point extractions.
// Every function is total: absent or empty input degrades to zero values,
// since "not yet answered" is a normal intermediate state.
package scoring

import (
	"math"

	"github.com/cortexdiag/cortex/internal/blueprint"
	"github.com/cortexdiag/cortex/internal/pillar"
)

// Percent converts a list of 1-6 scores into a 0-100 percentage:
// the average divided by the maximum score, rounded to nearest.
// Returns 0 for an empty list.
func Percent(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s
	}
	average := float64(total) / float64(len(scores))
	return int(math.Round(average / blueprint.ScoreMax * 100))
}

// Selection is the outcome of picking an extreme pillar. When several
// pillars tie at the extreme value the selection stays unresolved and
// Candidates lists every tied pillar, forcing the caller to ask the user.
type Selection struct {
	Resolved   bool
	Pillar     pillar.Pillar
	Candidates []pillar.Pillar
}

// Phase1Summary is the computed result of a completed phase-1 questionnaire.
type Phase1Summary struct {
	PillarPercentages map[pillar.Pillar]int
	GeneralIndex      int
	Critical          Selection
	Strong            Selection
	HasTieBreak       bool
}

// ComputePhase1Summary derives per-pillar percentages, the general index and
// the critical/strong pillar selections. A manual pillar resolves a tied
// side only if it is among the tied candidates; otherwise the side stays
// unresolved. Pass the zero Pillar to skip manual resolution.
func ComputePhase1Summary(scores map[pillar.Pillar][]int, manualCritical, manualStrong pillar.Pillar) Phase1Summary {
	percentages := make(map[pillar.Pillar]int, 4)
	for _, p := range pillar.All() {
		percentages[p] = Percent(scores[p])
	}

	critical := resolveExtreme(percentages, manualCritical, func(v, target int) bool { return v < target })
	strong := resolveExtreme(percentages, manualStrong, func(v, target int) bool { return v > target })

	sum := 0
	for _, p := range pillar.All() {
		sum += percentages[p]
	}
	general := int(math.Round(float64(sum) / 4))

	return Phase1Summary{
		PillarPercentages: percentages,
		GeneralIndex:      general,
		Critical:          critical,
		Strong:            strong,
		HasTieBreak:       !critical.Resolved || !strong.Resolved,
	}
}

// resolveExtreme finds the pillars at the extreme percentage (direction given
// by better) and resolves the selection automatically or via the manual pick.
func resolveExtreme(percentages map[pillar.Pillar]int, manual pillar.Pillar, better func(v, target int) bool) Selection {
	all := pillar.All()
	target := percentages[all[0]]
	for _, p := range all[1:] {
		if better(percentages[p], target) {
			target = percentages[p]
		}
	}

	var candidates []pillar.Pillar
	for _, p := range all {
		if percentages[p] == target {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 1 {
		return Selection{Resolved: true, Pillar: candidates[0], Candidates: candidates}
	}
	for _, c := range candidates {
		if manual != "" && c == manual {
			return Selection{Resolved: true, Pillar: manual, Candidates: candidates}
		}
	}
	return Selection{Candidates: candidates}
}

// Phase2Summary is the computed result of a completed refined assessment.
type Phase2Summary struct {
	TechnicalIndex int
	StateIndex     int
	GeneralIndex   int
}

// ComputePhase2Summary derives the technical, state and combined indexes.
func ComputePhase2Summary(technicalScores, stateScores []int) Phase2Summary {
	technical := Percent(technicalScores)
	state := Percent(stateScores)
	return Phase2Summary{
		TechnicalIndex: technical,
		StateIndex:     state,
		GeneralIndex:   int(math.Round(float64(technical+state) / 2)),
	}
}
