package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "List the diagnostic cycle history",
	RunE:  runCycles,
}

func runCycles(cmd *cobra.Command, _ []string) error {
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
	if len(cycles) == 0 {
		fmt.Println("Nenhum ciclo de diagnóstico registrado.")
		return nil
	}

	for _, c := range cycles {
		fmt.Printf("Ciclo %d  %-22s  criado em %s\n", c.CycleNumber, c.Status, c.CreatedAt.Format("2006-01-02"))
		if c.Phase1CompletedAt != nil {
			fmt.Printf("  índice geral %d%%  fase 1 concluída em %s\n", c.GeneralIndex, dateOf(c.Phase1CompletedAt))
		}
		if c.Phase2CompletedAt != nil {
			fmt.Printf("  índice fase 2 %d%%  concluída em %s\n", c.Phase2GeneralIndex, dateOf(c.Phase2CompletedAt))
		}
		if c.ProtocolCompletedAt != nil {
			fmt.Printf("  protocolo concluído em %s\n", dateOf(c.ProtocolCompletedAt))
		}
		if c.Reeval45CompletedAt != nil {
			fmt.Printf("  reavaliação concluída em %s\n", dateOf(c.Reeval45CompletedAt))
		}
	}
	return nil
}

func dateOf(t *time.Time) string {
	return t.Format("2006-01-02")
}
