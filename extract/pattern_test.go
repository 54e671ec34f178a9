package extract

import (
	"testing"
)

// ---------------------------------------------------------------------------
// MatchStep tests
// ---------------------------------------------------------------------------

func TestMatchStep(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantIndex   int
		wantContent string
	}{
		// Bare numbered steps
		{"bare_dot", "1. Remove the cover", 1, "Remove the cover"},
		{"bare_dot_multi_digit", "12. Drain the cooling circuit", 12, "Drain the cooling circuit"},
		{"paren", "3) Check the oil level", 3, "Check the oil level"},

		// Named prefixes
		{"step_colon", "Step 4: Tighten the bolts", 4, "Tighten the bolts"},
		{"step_dot", "Step 2. Fit the gasket", 2, "Fit the gasket"},
		{"step_plain", "Step 9 Reconnect the hose", 9, "Reconnect the hose"},
		{"task_colon", "Task 7: Mount the panel", 7, "Mount the panel"},
		{"procedure", "Procedure 3: Verify the torque", 3, "Verify the torque"},

		// Letter-prefixed revision markers
		{"letter_tight", "A1. Align the bracket", 1, "Align the bracket"},
		{"letter_spaced", "B 2) Insert the pin", 2, "Insert the pin"},
		{"letter_dotted", "C. 5. Lock the lever", 5, "Lock the lever"},

		// Serial-number variants
		{"sl_no_dotted", "Sl. No. 9 Inspect the welds", 9, "Inspect the welds"},
		{"sl_no_plain", "Sl No 2: Clean the surface", 2, "Clean the surface"},
		{"sl_no_upper", "SL NO 4: Replace the filter", 4, "Replace the filter"},
		{"sl_no_lower", "sl no 6. Grease the joints", 6, "Grease the joints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MatchStep(tt.line)
			if !ok {
				t.Fatalf("MatchStep(%q) = no match, want index %d", tt.line, tt.wantIndex)
			}
			if m.Index != tt.wantIndex {
				t.Errorf("MatchStep(%q).Index = %d, want %d", tt.line, m.Index, tt.wantIndex)
			}
			if got := tt.line[m.ContentStart:]; got != tt.wantContent {
				t.Errorf("content after match = %q, want %q", got, tt.wantContent)
			}
		})
	}
}

func TestMatchStepMisses(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"bare_number_no_content", "5."},
		{"number_only", "5"},
		{"no_whitespace_after_delimiter", "5.Open the panel"},
		{"continuation_line", "and tighten the remaining bolts"},
		{"dotted_multi_level", "1.2.3 Install the subassembly"},
		{"number_mid_line", "See item 4. for details"},
		{"header_words", "Sl No Description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m, ok := MatchStep(tt.line); ok {
				t.Errorf("MatchStep(%q) = %+v, want no match", tt.line, m)
			}
		})
	}
}

// MatchStep takes the first pattern in order, so the content offset of
// a named prefix covers the whole prefix, not just the number.
func TestMatchStepOrder(t *testing.T) {
	m, ok := MatchStep("Step 5. Remove the guard")
	if !ok {
		t.Fatal("expected a match")
	}
	if got := "Step 5. Remove the guard"[m.ContentStart:]; got != "Remove the guard" {
		t.Errorf("content = %q, want %q (named prefix must consume its delimiter)", got, "Remove the guard")
	}
}

func TestMatchStepStateless(t *testing.T) {
	line := "2. Fit the seal"
	first, ok1 := MatchStep(line)
	second, ok2 := MatchStep(line)
	if !ok1 || !ok2 {
		t.Fatal("expected both calls to match")
	}
	if first != second {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
}
