package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cortexdiag/cortex/internal/pillar"
	"github.com/cortexdiag/cortex/internal/scoring"
	"github.com/cortexdiag/cortex/internal/store"
	"github.com/cortexdiag/cortex/internal/temporal"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current diagnostic stage and temporal gates",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("at", "", "Evaluate temporal gates at an RFC3339 instant instead of now")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	st, log, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	defer log.Sync()

	var clock func() time.Time
	if at, _ := cmd.Flags().GetString("at"); at != "" {
		ts := temporal.ParseTimestamp(at)
		if ts == nil {
			return fmt.Errorf("invalid --at timestamp %q, expected RFC3339", at)
		}
		clock = func() time.Time { return *ts }
	}

	f, err := buildFlow(cmd, st, log, clock)
	if err != nil {
		return err
	}
	if err := f.Initialize(cmd.Context()); err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}

	cycle := f.Cycle()
	fmt.Printf("Ciclo %d — %s\n", cycle.CycleNumber, cycle.Status)
	fmt.Printf("Etapa atual: %s\n", f.Stage())

	answered, total := f.Phase1Progress()
	fmt.Printf("Fase 1: %d/%d respostas\n", answered, total)
	if cycle.Phase1CompletedAt != nil {
		printPillars(cycle)
	}
	if answered2, total2 := f.Phase2Progress(); total2 > 0 && cycle.CriticalPillar != "" {
		fmt.Printf("Fase 2: %d/%d respostas\n", answered2, total2)
	}

	rules := f.Rules()
	fmt.Println()
	fmt.Println("Reavaliação refinada:", rules.Phase2Reevaluation.Message)
	fmt.Println("Novo diagnóstico estrutural:", rules.NewStructuralDiagnosis.Message)
	return nil
}

func printPillars(cycle *store.DiagnosticCycle) {
	percents := map[pillar.Pillar]int{
		pillar.Clarity:   cycle.PillarClarity,
		pillar.Structure: cycle.PillarStructure,
		pillar.Execution: cycle.PillarExecution,
		pillar.Emotional: cycle.PillarEmotional,
	}
	for _, p := range pillar.All() {
		m := scoring.ClassifyMaturity(percents[p])
		fmt.Printf("  %-22s %3d%%  %s\n", pillar.DisplayName(p), percents[p], m.Label)
	}
	fmt.Printf("  %-22s %3d%%\n", "Índice geral", cycle.GeneralIndex)
	if p, ok := pillar.Parse(cycle.CriticalPillar); ok {
		fmt.Printf("  Pilar crítico: %s\n", pillar.DisplayName(p))
	}
	if p, ok := pillar.Parse(cycle.StrongPillar); ok {
		fmt.Printf("  Pilar forte: %s\n", pillar.DisplayName(p))
	}
}
