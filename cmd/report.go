package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cortexdiag/cortex/internal/pillar"
	"github.com/cortexdiag/cortex/internal/report"
	"github.com/cortexdiag/cortex/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compare the two most recent completed diagnostics",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, _ []string) error {
	st, log, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	defer log.Sync()

	userID, _ := cmd.Flags().GetString("user")
	nicheID, _ := cmd.Flags().GetString("niche")

	cycles, err := st.CycleRepo().ListByUserNiche(cmd.Context(), userID, nicheID)
	if err != nil {
		return fmt.Errorf("list cycles: %w", err)
	}

	current, previous := latestScoredPair(cycles)
	r := report.Build(current, previous)

	fmt.Println(r.Summary)
	if len(r.Metrics) == 0 {
		return nil
	}
	fmt.Println()
	for _, m := range r.Metrics {
		if m.Variation == nil {
			fmt.Printf("  %-22s %5.0f%%   %s\n", m.Label, m.Current, m.Interpretation)
			continue
		}
		fmt.Printf("  %-22s %5.0f%%  %+5.1f   %s\n", m.Label, m.Current, *m.Variation, m.Interpretation)
	}
	if len(r.RegressionAlerts) > 0 {
		fmt.Println()
		fmt.Println("Alertas de regressão:")
		for _, alert := range r.RegressionAlerts {
			fmt.Println("  -", alert)
		}
	}
	return nil
}

// latestScoredPair picks the newest two cycles that finished phase 1, in
// (current, previous) order. Cycles arrive newest first.
func latestScoredPair(cycles []*store.DiagnosticCycle) (current, previous *report.CycleScores) {
	var picked []*report.CycleScores
	for _, c := range cycles {
		if c.Phase1CompletedAt == nil {
			continue
		}
		picked = append(picked, cycleScores(c))
		if len(picked) == 2 {
			break
		}
	}
	switch len(picked) {
	case 0:
		return nil, nil
	case 1:
		return picked[0], nil
	default:
		return picked[0], picked[1]
	}
}

func cycleScores(c *store.DiagnosticCycle) *report.CycleScores {
	return &report.CycleScores{
		GeneralIndex:       c.GeneralIndex,
		Phase2GeneralIndex: c.Phase2GeneralIndex,
		Pillars: map[pillar.Pillar]int{
			pillar.Clarity:   c.PillarClarity,
			pillar.Structure: c.PillarStructure,
			pillar.Execution: c.PillarExecution,
			pillar.Emotional: c.PillarEmotional,
		},
	}
}
