package blueprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cortexdiag/cortex/internal/pillar"
)

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default blueprint invalid: %v", err)
	}
}

func TestDefault_Counts(t *testing.T) {
	b := Default()
	if got := b.TotalPhase1Questions(); got != 48 {
		t.Errorf("TotalPhase1Questions = %d, want 48", got)
	}
	if got := b.ReflectionCount(); got != 5 {
		t.Errorf("ReflectionCount = %d, want 5", got)
	}
	if got := b.TotalProtocolActions(); got != 9 {
		t.Errorf("TotalProtocolActions = %d, want 9", got)
	}
}

func TestPhase2Questions_SelectsCriticalPillarOnly(t *testing.T) {
	b := Default()
	for _, critical := range pillar.All() {
		questions := b.Phase2Questions(critical)
		if len(questions) != 20 {
			t.Fatalf("Phase2Questions(%s) returned %d questions, want 20", critical, len(questions))
		}

		technical := 0
		for _, q := range questions {
			if q.Type == TypeTechnical {
				technical++
				// Technical questions must come from the critical pillar's bank.
				found := false
				for _, title := range b.TechnicalBank[critical] {
					if title == q.Title {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("technical question %q not in %s bank", q.Title, critical)
				}
			}
		}
		if technical != 14 {
			t.Errorf("Phase2Questions(%s) has %d technical questions, want 14", critical, technical)
		}
	}
}

func TestPhase2Questions_NumbersPerBank(t *testing.T) {
	questions := Default().Phase2Questions(pillar.Clarity)
	techNext, stateNext := 1, 1
	for _, q := range questions {
		switch q.Type {
		case TypeTechnical:
			if q.Number != techNext {
				t.Fatalf("technical number = %d, want %d", q.Number, techNext)
			}
			techNext++
		case TypeState:
			if q.Number != stateNext {
				t.Fatalf("state number = %d, want %d", q.Number, stateNext)
			}
			stateNext++
		}
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	b, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if b.TotalPhase1Questions() != 48 {
		t.Errorf("expected defaults from empty path")
	}
}

func TestLoad_OverridesReflections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blueprint.yaml")
	content := "reflections:\n  - \"Pergunta um?\"\n  - \"Pergunta dois?\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if b.ReflectionCount() != 2 {
		t.Errorf("ReflectionCount = %d, want 2", b.ReflectionCount())
	}
	// Non-overridden sections keep defaults.
	if b.TotalPhase1Questions() != 48 {
		t.Errorf("phase1 bank should keep defaults")
	}
}

func TestLoad_RejectsUnknownPillar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blueprint.yaml")
	content := "technical:\n  focus:\n    - \"Pergunta?\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown pillar")
	}
}

func TestValidate_RejectsWrongBlockShape(t *testing.T) {
	b := Default()
	b.ActionBlocks = b.ActionBlocks[:2]
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for 2 action blocks")
	}
}
