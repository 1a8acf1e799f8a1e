package cmd

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cortexdiag/cortex/internal/blueprint"
	"github.com/cortexdiag/cortex/internal/checkpoint"
	"github.com/cortexdiag/cortex/internal/flow"
	"github.com/cortexdiag/cortex/internal/logger"
	"github.com/cortexdiag/cortex/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cortex",
	Short: "Diagnostic cycle engine for project maturity",
	Long:  "Cortex — terminal engine for the multi-phase behavioral diagnostic: structural assessment across four pillars, refined reevaluation and the guided action protocol.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CORTEX_DB env var)")
	rootCmd.PersistentFlags().String("user", "local", "User identifier the diagnostic belongs to")
	rootCmd.PersistentFlags().String("niche", "default", "Niche identifier the diagnostic belongs to")
	rootCmd.PersistentFlags().String("blueprint", "", "Path to a YAML questionnaire override file")
	rootCmd.PersistentFlags().String("log", "dev", "Logger mode: dev or prod")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cyclesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CORTEX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore builds the logger and opens the store for a command.
func openStore(cmd *cobra.Command) (*store.Store, *logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log")
	log, err := logger.New(mode)
	if err != nil {
		return nil, nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(dbPath, log)
	if err != nil {
		return nil, nil, err
	}
	return st, log, nil
}

// buildFlow wires a session coordinator from the command's flags. The
// checkpoint directory lives next to the database file. A nil clock means
// wall time.
func buildFlow(cmd *cobra.Command, st *store.Store, log *logger.Logger, clock func() time.Time) (*flow.Flow, error) {
	userID, _ := cmd.Flags().GetString("user")
	nicheID, _ := cmd.Flags().GetString("niche")

	bp, err := loadBlueprint(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	cps := checkpoint.NewStore(filepath.Join(filepath.Dir(dbPath), "checkpoints"), log)

	return flow.New(flow.Config{
		Cycles:      st.CycleRepo(),
		Responses:   st.ResponseRepo(),
		Protocols:   st.ProtocolRepo(),
		Checkpoints: cps,
		Blueprint:   bp,
		Logger:      log,
		Clock:       clock,
		UserID:      userID,
		NicheID:     nicheID,
	}), nil
}

func loadBlueprint(cmd *cobra.Command) (*blueprint.Blueprint, error) {
	path, _ := cmd.Flags().GetString("blueprint")
	if path == "" {
		return blueprint.Default(), nil
	}
	return blueprint.Load(path)
}
