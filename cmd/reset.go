package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cortexdiag/cortex/internal/checkpoint"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all diagnostic data for a user and niche",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion without prompting")
}

func runReset(cmd *cobra.Command, _ []string) error {
	confirmed, _ := cmd.Flags().GetBool("yes")
	if !confirmed {
		fmt.Println("Use --yes para confirmar a exclusão de todos os dados do diagnóstico.")
		return nil
	}

	st, log, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	defer log.Sync()

	userID, _ := cmd.Flags().GetString("user")
	nicheID, _ := cmd.Flags().GetString("niche")

	if err := st.ResetUserNiche(cmd.Context(), userID, nicheID); err != nil {
		return fmt.Errorf("reset diagnostic data: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return err
	}
	cps := checkpoint.NewStore(filepath.Join(filepath.Dir(dbPath), "checkpoints"), log)
	if err := cps.Clear(userID, nicheID); err != nil {
		log.Warn("checkpoint clear failed", "error", err)
	}

	fmt.Println("Dados de diagnóstico removidos.")
	return nil
}
