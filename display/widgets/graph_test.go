package widgets

import (
	"testing"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

func graphSpec(identifier string) protocol.WidgetSpec {
	return protocol.WidgetSpec{
		Kind:       protocol.KindGraph,
		Identifier: identifier,
		LeftTpl:    "CPU",
		RightTpl:   "{quotient}%",
	}
}

func TestGraphHistory_AlwaysAtCapacity(t *testing.T) {
	graph := NewGraph(graphSpec("load_cpu"), NewStyleSet(nil))

	if got := len(graph.History()); got != GraphCapacity {
		t.Fatalf("fresh history length = %d, want %d", got, GraphCapacity)
	}

	for i := 0; i < GraphCapacity+50; i++ {
		if err := graph.Push(protocol.Overview(float64(i % 100))); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
		if got := len(graph.History()); got != GraphCapacity {
			t.Fatalf("history length after push %d = %d, want %d", i, got, GraphCapacity)
		}
	}
}

func TestGraphHistory_FIFOEviction(t *testing.T) {
	graph := NewGraph(graphSpec("load_cpu"), NewStyleSet(nil))

	// Push N > capacity samples with distinct values; the oldest
	// surviving entry must correspond to push index N-200.
	n := GraphCapacity + 17
	for i := 0; i < n; i++ {
		if err := graph.Push(protocol.Overview(float64(i % 100))); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}

	history := graph.History()
	oldestIndex := n - GraphCapacity
	want := float64(oldestIndex % 100)
	got := history[0].Lane1 + history[0].Lane2
	if got != want {
		t.Errorf("oldest entry value = %v, want %v (push index %d)", got, want, oldestIndex)
	}

	newest := history[GraphCapacity-1]
	if got := newest.Lane1 + newest.Lane2; got != float64((n-1)%100) {
		t.Errorf("newest entry value = %v, want %v", got, float64((n-1)%100))
	}
}

func TestGraphLaneAlternation(t *testing.T) {
	graph := NewGraph(graphSpec("load_cpu"), NewStyleSet(nil))

	for i := 0; i < 10; i++ {
		if err := graph.Push(protocol.Overview(50)); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}

		latest := graph.Latest()
		if i%2 == 0 {
			if latest.Lane2 != 50 || latest.Lane1 != 0 {
				t.Errorf("sample %d (even): lanes = %+v, want value in lane 2", i, latest)
			}
		} else {
			if latest.Lane1 != 50 || latest.Lane2 != 0 {
				t.Errorf("sample %d (odd): lanes = %+v, want value in lane 1", i, latest)
			}
		}
	}
}

func TestGraphPush_ClampsHistoryNotLabel(t *testing.T) {
	graph := NewGraph(graphSpec("load_cpu"), NewStyleSet(nil))
	if err := graph.Push(protocol.Measure(150, 100)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := graph.Latest().Lane2; got != 100 {
		t.Errorf("history entry = %v, want clamped 100", got)
	}
	if got := graph.RightLabel(); got != "150.0%" {
		t.Errorf("RightLabel() = %q, want raw quotient", got)
	}
}

func TestGraphPush_InvalidReadingKeepsCounterAndBuffer(t *testing.T) {
	graph := NewGraph(graphSpec("load_cpu"), NewStyleSet(nil))
	if err := graph.Push(protocol.Overview(10)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if err := graph.Push(protocol.Reading{}); err == nil {
		t.Fatal("Push(empty) succeeded, want error")
	}
	if got := graph.Samples(); got != 1 {
		t.Errorf("Samples() = %d, want 1 (rejected push must not count)", got)
	}
	if got := graph.Latest().Lane2; got != 10 {
		t.Errorf("Latest() = %v, want unchanged entry", graph.Latest())
	}
}
