// ABOUTME: Tests for table layout and score formatting.
// ABOUTME: Color is disabled so assertions compare plain text.
package output

import (
	"strings"
	"testing"
)

func init() {
	SetNoColor(true)
}

func TestVisualLen_StripsANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain", "hello", 5},
		{"empty", "", 0},
		{"bold", "\x1b[1mhello\x1b[0m", 5},
		{"color", "\x1b[31mred\x1b[0m", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := visualLen(tc.input); got != tc.want {
				t.Errorf("visualLen(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestTableRender(t *testing.T) {
	tbl := NewTable("DAY", "SCORE")
	tbl.AddRow("2024-03-15", "+0.012")
	tbl.AddRow("2024-03-14")
	tbl.AddRow("a", "b", "dropped")

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "DAY         SCORE") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Contains(out, "dropped") {
		t.Error("extra cell should be dropped")
	}
	if tbl.Len() != 3 {
		t.Errorf("Len = %d, want 3", tbl.Len())
	}
}

func TestTableEmptyHeaders(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("Render = %q, want empty", got)
	}
}

func TestScore(t *testing.T) {
	tests := map[float64]string{
		0.0123: "+0.012",
		-0.5:   "-0.500",
		0:      "+0.000",
	}
	for in, want := range tests {
		if got := Score(in); got != want {
			t.Errorf("Score(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPercentBar(t *testing.T) {
	got := PercentBar(0.5, 0.2, 10)
	if got != "█████░░░░░ 50%" {
		t.Errorf("PercentBar = %q", got)
	}
	if got := PercentBar(1.5, 0.2, 4); !strings.HasPrefix(got, "████ ") {
		t.Errorf("overflow not clamped: %q", got)
	}
	if got := PercentBar(-1, 0.2, 0); !strings.HasPrefix(got, strings.Repeat("░", 20)) {
		t.Errorf("negative not clamped: %q", got)
	}
}

func TestKV(t *testing.T) {
	got := KV("Bandwidth", "x")
	if !strings.HasPrefix(got, "Bandwidth") || !strings.HasSuffix(got, "x") || len(got) != 23 {
		t.Errorf("KV = %q", got)
	}
}
