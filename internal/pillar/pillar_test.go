package pillar

import "testing"

func TestAll_OrderAndCount(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("All() returned %d pillars, want 4", len(all))
	}
	want := []Pillar{Clarity, Structure, Execution, Emotional}
	for i, p := range all {
		if p != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, p, want[i])
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Pillar
		ok   bool
	}{
		{"clarity", Clarity, true},
		{"structure", Structure, true},
		{"execution", Execution, true},
		{"emotional", Emotional, true},
		{"", "", false},
		{"focus", "", false},
		{"Clarity", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Parse(%q) = (%s, %v), want (%s, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDisplayName_UnknownFallsBack(t *testing.T) {
	if got := DisplayName(Pillar("weird")); got != "weird" {
		t.Errorf("DisplayName(weird) = %q, want raw value", got)
	}
}
