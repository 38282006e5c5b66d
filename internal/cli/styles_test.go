package cli

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/nivke/invoiceflow/internal/model"
)

func TestLabelColor_Deterministic(t *testing.T) {
	names := []string{"office", "cloud", "hr", "travel", "מסעדות", ""}
	for _, name := range names {
		first := LabelColor(name)
		for i := 0; i < 5; i++ {
			if got := LabelColor(name); got != first {
				t.Fatalf("LabelColor(%q) changed between calls: %v vs %v", name, got, first)
			}
		}
	}
}

func TestLabelColor_StaysInPalette(t *testing.T) {
	inPalette := func(c lipgloss.Color) bool {
		for _, p := range labelPalette {
			if p == c {
				return true
			}
		}
		return false
	}

	names := []string{"a", "zz", "Office", "office", "a-very-long-label-name-with-dashes", "123", "ועד בית"}
	for _, name := range names {
		if !inPalette(LabelColor(name)) {
			t.Errorf("LabelColor(%q) not from the fixed palette", name)
		}
	}
}

func TestLabelColor_CaseMatters(t *testing.T) {
	// Labels are case-sensitive identifiers, so casing may change the color.
	// What must hold is that equal strings always agree.
	if LabelColor("office") != LabelColor("office") {
		t.Fatal("identical names produced different colors")
	}
}

func TestStatusStyle_KnownAndUnknown(t *testing.T) {
	for _, status := range model.AllStatuses {
		style := StatusStyle(status)
		if style.GetForeground() == SubtleColor {
			t.Errorf("status %s fell back to the subtle color", status)
		}
	}

	unknown := StatusStyle(model.Status("Archived"))
	if unknown.GetForeground() != SubtleColor {
		t.Error("unknown status should use the subtle fallback color")
	}
}
