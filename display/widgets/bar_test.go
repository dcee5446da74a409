package widgets

import (
	"errors"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

func barSpec(identifier string) protocol.WidgetSpec {
	return protocol.WidgetSpec{
		Kind:       protocol.KindBar,
		Identifier: identifier,
		LeftTpl:    "Pump",
		RightTpl:   "{quotient}% [{value}/{total}]RPM",
	}
}

func TestBarPush_UpdatesCompletionAndLabels(t *testing.T) {
	bar := NewBar(barSpec("pump"), NewStyleSet(nil))

	if err := bar.Push(protocol.Measure(700, 1400)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := bar.Completion(); got != 50.0 {
		t.Errorf("Completion() = %v, want 50", got)
	}
	if got := bar.RightLabel(); got != "50.0% [700/1400]RPM" {
		t.Errorf("RightLabel() = %q", got)
	}
	if got := bar.LeftLabel(); got != "Pump" {
		t.Errorf("LeftLabel() = %q", got)
	}
}

func TestBarPush_InvalidReadingDoesNotMutate(t *testing.T) {
	bar := NewBar(barSpec("pump"), NewStyleSet(nil))
	if err := bar.Push(protocol.Measure(700, 1400)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	err := bar.Push(protocol.Reading{})
	if !errors.Is(err, protocol.ErrInvalidReading) {
		t.Fatalf("Push(empty) = %v, want ErrInvalidReading", err)
	}
	if got := bar.Completion(); got != 50.0 {
		t.Errorf("Completion() after rejected push = %v, want unchanged 50", got)
	}

	err = bar.Push(protocol.Measure(700, 0))
	if !errors.Is(err, protocol.ErrInvalidReading) {
		t.Fatalf("Push(total=0) = %v, want ErrInvalidReading", err)
	}
	if got := bar.RightLabel(); got != "50.0% [700/1400]RPM" {
		t.Errorf("RightLabel() after rejected push = %q, want unchanged", got)
	}
}

func TestBarPush_CompletionClampsLabelDoesNot(t *testing.T) {
	bar := NewBar(barSpec("pump"), NewStyleSet(nil))
	if err := bar.Push(protocol.Measure(2800, 1400)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := bar.Completion(); got != 100.0 {
		t.Errorf("Completion() = %v, want clamped 100", got)
	}
	if got := bar.RightLabel(); !strings.Contains(got, "200.0%") {
		t.Errorf("RightLabel() = %q, want raw 200.0%% quotient", got)
	}
}

func TestBarTextRow_MiddleOfOddRows(t *testing.T) {
	bar := NewBar(barSpec("pump"), NewStyleSet(nil))
	if got := bar.Rows(); got != 3 {
		t.Fatalf("Rows() = %d, want 3", got)
	}
	// Of 3 stacked rows, row ceil(3/2)-1 = 1 carries the text.
	if got := bar.TextRow(); got != 1 {
		t.Errorf("TextRow() = %d, want 1", got)
	}
}

func TestBarRender_OverlayOnlyOnTextRow(t *testing.T) {
	bar := NewBar(barSpec("pump"), NewStyleSet(nil))
	if err := bar.Push(protocol.Measure(350, 1400)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	lines := strings.Split(bar.Render(40), "\n")
	if len(lines) != 4 {
		t.Fatalf("Render produced %d lines, want 1 label + 3 rows", len(lines))
	}

	withText := 0
	for _, line := range lines[1:] {
		if strings.Contains(line, "25 %") {
			withText++
		}
	}
	if withText != 1 {
		t.Errorf("%d rows carry the numeric overlay, want exactly 1", withText)
	}
	if !strings.Contains(lines[1+bar.TextRow()], "25 %") {
		t.Errorf("overlay not on the middle row: %q", lines[1+bar.TextRow()])
	}
}
