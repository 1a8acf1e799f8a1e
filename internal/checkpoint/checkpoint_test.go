package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	cycleID := uuid.New()

	cp := &Checkpoint{
		CycleID:       cycleID,
		Phase1Answers: map[string]int{"clarity:1": 4, "clarity:2": 2},
		Reflections:   []string{"primeira reflexão"},
	}
	if err := s.Save("user-1", "niche-1", cp); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := s.Load("user-1", "niche-1")
	if got == nil {
		t.Fatal("Load returned nil after Save")
	}
	if got.CycleID != cycleID {
		t.Errorf("CycleID = %s, want %s", got.CycleID, cycleID)
	}
	if got.Phase1Answers["clarity:2"] != 2 {
		t.Errorf("Phase1Answers[clarity:2] = %d, want 2", got.Phase1Answers["clarity:2"])
	}
	if len(got.Reflections) != 1 || got.Reflections[0] != "primeira reflexão" {
		t.Errorf("Reflections = %v", got.Reflections)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped on save")
	}
}

func TestLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	if got := s.Load("user-1", "niche-1"); got != nil {
		t.Errorf("Load on empty dir = %+v, want nil", got)
	}
}

func TestLoadCorruptFileDiscarded(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	path := filepath.Join(dir, "user-1-niche-1.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := s.Load("user-1", "niche-1"); got != nil {
		t.Errorf("Load of corrupt file = %+v, want nil", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt checkpoint file not removed")
	}
}

func TestClearMissingIsNoError(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	if err := s.Clear("user-1", "niche-1"); err != nil {
		t.Errorf("Clear on missing file: %v", err)
	}
}

func TestMergeAnswers(t *testing.T) {
	persisted := map[string]int{"clarity:1": 3, "clarity:2": 4}

	tests := []struct {
		name       string
		checkpoint map[string]int
		wantSource string
	}{
		{"checkpoint further along", map[string]int{"clarity:1": 3, "clarity:2": 4, "clarity:3": 5}, "checkpoint"},
		{"equal counts keep persisted", map[string]int{"clarity:1": 6, "clarity:2": 6}, "persisted"},
		{"checkpoint behind", map[string]int{"clarity:1": 3}, "persisted"},
		{"empty checkpoint", nil, "persisted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeAnswers(persisted, tt.checkpoint)
			switch tt.wantSource {
			case "checkpoint":
				if len(got) != len(tt.checkpoint) {
					t.Errorf("got %d answers, want checkpoint's %d", len(got), len(tt.checkpoint))
				}
			case "persisted":
				if got["clarity:1"] != 3 {
					t.Errorf("got[clarity:1] = %d, want persisted value 3", got["clarity:1"])
				}
			}
		})
	}
}

func TestUsableFor(t *testing.T) {
	cycleID := uuid.New()
	cp := &Checkpoint{CycleID: cycleID}

	if !cp.UsableFor(cycleID) {
		t.Error("checkpoint not usable for its own cycle")
	}
	if cp.UsableFor(uuid.New()) {
		t.Error("checkpoint usable for a different cycle")
	}
	var nilCP *Checkpoint
	if nilCP.UsableFor(cycleID) {
		t.Error("nil checkpoint reported usable")
	}
}
