package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "cortex.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestCycleRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	repo := st.CycleRepo()

	if got, err := repo.LatestByUserNiche(ctx, "u1", "n1"); err != nil || got != nil {
		t.Fatalf("LatestByUserNiche on empty store = %v, %v", got, err)
	}

	cycle := &DiagnosticCycle{
		UserID:      "u1",
		NicheID:     "n1",
		CycleNumber: 1,
		Status:      StatusPhase1InProgress,
	}
	if err := repo.Create(ctx, cycle); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cycle.ID == uuid.Nil {
		t.Fatal("Create left cycle ID unset")
	}

	second := &DiagnosticCycle{UserID: "u1", NicheID: "n1", CycleNumber: 2, Status: StatusPhase1InProgress}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatal(err)
	}

	latest, err := repo.LatestByUserNiche(ctx, "u1", "n1")
	if err != nil {
		t.Fatal(err)
	}
	if latest.CycleNumber != 2 {
		t.Errorf("latest cycle number = %d, want 2", latest.CycleNumber)
	}

	latest.Status = StatusPhase2InProgress
	latest.GeneralIndex = 58
	if err := repo.Update(ctx, latest); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, latest.ID, "u1", "n1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusPhase2InProgress || got.GeneralIndex != 58 {
		t.Errorf("updated cycle = %s/%d", got.Status, got.GeneralIndex)
	}

	// Wrong owner must not see the cycle.
	if other, err := repo.GetByID(ctx, latest.ID, "u2", "n1"); err != nil || other != nil {
		t.Errorf("GetByID with wrong owner = %v, %v", other, err)
	}

	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.MarkReeval90(ctx, cycle.ID, at); err != nil {
		t.Fatalf("MarkReeval90: %v", err)
	}
	first, err := repo.GetByID(ctx, cycle.ID, "u1", "n1")
	if err != nil {
		t.Fatal(err)
	}
	if first.Reeval90CompletedAt == nil || !first.Reeval90CompletedAt.Equal(at) {
		t.Errorf("Reeval90CompletedAt = %v, want %v", first.Reeval90CompletedAt, at)
	}

	all, err := repo.ListByUserNiche(ctx, "u1", "n1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].CycleNumber != 2 {
		t.Errorf("ListByUserNiche = %d cycles, newest %d", len(all), all[0].CycleNumber)
	}
}

func TestPhase1UpsertReplacesScore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	cycleID := uuid.New()
	repo := st.ResponseRepo()

	resp := &Phase1Response{
		CycleID: cycleID, UserID: "u1", NicheID: "n1",
		Pillar: "clarity", QuestionNumber: 3, Score: 2,
	}
	if err := repo.UpsertPhase1(ctx, resp); err != nil {
		t.Fatalf("UpsertPhase1: %v", err)
	}
	if err := repo.UpsertPhase1(ctx, &Phase1Response{
		CycleID: cycleID, UserID: "u1", NicheID: "n1",
		Pillar: "clarity", QuestionNumber: 3, Score: 5,
	}); err != nil {
		t.Fatalf("UpsertPhase1 replace: %v", err)
	}

	rows, err := repo.ListPhase1(ctx, cycleID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 after upsert on same key", len(rows))
	}
	if rows[0].Score != 5 {
		t.Errorf("score = %d, want replaced 5", rows[0].Score)
	}
}

func TestPhase2UpsertKeyedByType(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	cycleID := uuid.New()
	repo := st.ResponseRepo()

	// Same number under different types are distinct rows.
	for _, qt := range []string{"technical:clarity", "state:general"} {
		if err := repo.UpsertPhase2(ctx, &Phase2Response{
			CycleID: cycleID, UserID: "u1", NicheID: "n1",
			QuestionType: qt, QuestionNumber: 1, Score: 4,
		}); err != nil {
			t.Fatalf("UpsertPhase2(%s): %v", qt, err)
		}
	}

	rows, err := repo.ListPhase2(ctx, cycleID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestProtocolProgressRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	repo := st.ProtocolRepo()
	cycleID := uuid.New()

	if got, err := repo.GetByCycleID(ctx, cycleID); err != nil || got != nil {
		t.Fatalf("GetByCycleID before create = %v, %v", got, err)
	}

	row := &ProtocolProgress{
		CycleID: cycleID, UserID: "u1", NicheID: "n1",
		Block1:       MustJSON([]bool{true, false, false}),
		Block2:       MustJSON([]bool{false, false, false}),
		Block3:       MustJSON([]bool{false, false, false}),
		Reflections:  MustJSON([]string{"a", "b", "c", "d", "e"}),
		CurrentBlock: 1,
	}
	if err := repo.Create(ctx, row); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByCycleID(ctx, cycleID)
	if err != nil {
		t.Fatal(err)
	}
	actions := ActionList(got.Block1)
	if len(actions) != 3 || !actions[0] {
		t.Errorf("Block1 = %v", actions)
	}
	if refl := ReflectionList(got.Reflections); len(refl) != 5 || refl[4] != "e" {
		t.Errorf("Reflections = %v", refl)
	}

	now := time.Now().UTC().Truncate(time.Second)
	got.CompletedAt = &now
	got.CurrentBlock = 3
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := repo.GetByCycleID(ctx, cycleID)
	if err != nil {
		t.Fatal(err)
	}
	if again.CompletedAt == nil || again.CurrentBlock != 3 {
		t.Errorf("updated row = %+v", again)
	}
}

func TestResetUserNiche(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	cycle := &DiagnosticCycle{UserID: "u1", NicheID: "n1", CycleNumber: 1, Status: StatusPhase1InProgress}
	if err := st.CycleRepo().Create(ctx, cycle); err != nil {
		t.Fatal(err)
	}
	if err := st.ResponseRepo().UpsertPhase1(ctx, &Phase1Response{
		CycleID: cycle.ID, UserID: "u1", NicheID: "n1", Pillar: "clarity", QuestionNumber: 1, Score: 3,
	}); err != nil {
		t.Fatal(err)
	}
	keep := &DiagnosticCycle{UserID: "u2", NicheID: "n1", CycleNumber: 1, Status: StatusPhase1InProgress}
	if err := st.CycleRepo().Create(ctx, keep); err != nil {
		t.Fatal(err)
	}

	if err := st.ResetUserNiche(ctx, "u1", "n1"); err != nil {
		t.Fatalf("ResetUserNiche: %v", err)
	}

	if got, err := st.CycleRepo().LatestByUserNiche(ctx, "u1", "n1"); err != nil || got != nil {
		t.Errorf("u1 cycles survived reset: %v, %v", got, err)
	}
	if rows, err := st.ResponseRepo().ListPhase1(ctx, cycle.ID); err != nil || len(rows) != 0 {
		t.Errorf("u1 responses survived reset: %d, %v", len(rows), err)
	}
	if got, err := st.CycleRepo().LatestByUserNiche(ctx, "u2", "n1"); err != nil || got == nil {
		t.Errorf("u2 cycle deleted by u1 reset: %v, %v", got, err)
	}
}
