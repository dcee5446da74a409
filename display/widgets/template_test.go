package widgets

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

func TestFormatLabel(t *testing.T) {
	cases := []struct {
		tpl                    string
		quotient, value, total float64
		want                   string
	}{
		{"{quotient}%", 42.0, 42, 100, "42.0%"},
		{"{quotient}% [{value}/{total}]MB", 12.5, 512, 4096, "12.5% [512/4096]MB"},
		{"Coolant", 10, 0, 0, "Coolant"},
		{"{value}Mbps", 0, 87.5, 1000, "87.5Mbps"},
	}

	for _, c := range cases {
		got := FormatLabel(c.tpl, c.quotient, c.value, c.total)
		if got != c.want {
			t.Errorf("FormatLabel(%q, %v, %v, %v) = %q, want %q",
				c.tpl, c.quotient, c.value, c.total, got, c.want)
		}
	}
}

func TestNew_KindDispatch(t *testing.T) {
	styles := NewStyleSet(nil)

	w, err := New(protocol.WidgetSpec{Kind: protocol.KindBar, Identifier: "pump"}, styles)
	if err != nil {
		t.Fatalf("New(bar): %v", err)
	}
	if _, ok := w.(*Bar); !ok {
		t.Errorf("New(bar) returned %T", w)
	}

	w, err = New(protocol.WidgetSpec{Kind: protocol.KindGraph, Identifier: "memory"}, styles)
	if err != nil {
		t.Fatalf("New(graph): %v", err)
	}
	if _, ok := w.(*Graph); !ok {
		t.Errorf("New(graph) returned %T", w)
	}

	if _, err := New(protocol.WidgetSpec{Kind: "dial", Identifier: "x"}, styles); err == nil {
		t.Error("New(dial) succeeded, want unsupported-kind error")
	}
	if _, err := New(protocol.WidgetSpec{Kind: protocol.KindBar, Identifier: "Bad-Id"}, styles); err == nil {
		t.Error("New with bad identifier succeeded, want error")
	}
}

func TestStyleSet_Lookup(t *testing.T) {
	styles := NewStyleSet([]protocol.StyleRule{
		{Name: "load_cpu bar1", Background: "dark blue"},
		{Name: "load_cpu bar2", Background: "light blue"},
		{Name: "section title", Foreground: "black, bold", Background: "white"},
	})

	// Known rules resolve their colors; color names map to ANSI codes.
	lane1 := styles.For("load_cpu", PartLane1)
	if got := lane1.GetBackground(); got != lipgloss.Color("4") {
		t.Errorf("load_cpu bar1 background = %v, want ANSI 4 (dark blue)", got)
	}
	lane2 := styles.For("load_cpu", PartLane2)
	if got := lane2.GetBackground(); got != lipgloss.Color("12") {
		t.Errorf("load_cpu bar2 background = %v, want ANSI 12 (light blue)", got)
	}

	// Unknown parts fall back to an unstyled default.
	fallback := styles.For("memory", PartLane1)
	if fallback.GetBackground() != (lipgloss.NoColor{}) || fallback.GetBold() {
		t.Errorf("fallback style is not plain: %v", fallback)
	}

	// Layout-level parts resolve without an identifier, and a
	// ", bold" suffix sets boldness.
	section := styles.For("", PartSectionTitle)
	if !section.GetBold() {
		t.Error("section title rule did not apply bold")
	}
	if got := section.GetForeground(); got != lipgloss.Color("0") {
		t.Errorf("section title foreground = %v, want ANSI 0 (black)", got)
	}
}
