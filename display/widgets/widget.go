// Package widgets implements the dashboard widget state machines: the
// Bar gauge and the Graph history chart. Widgets consume metric
// readings and own their display state (labels, completion, history);
// they know nothing about HTTP or the event loop.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// Widget is the shared capability of all widget kinds: accept a
// reading, re-render on demand.
type Widget interface {
	// Identifier returns the widget's unique layout identifier.
	Identifier() string

	// Push consumes one metric reading and updates display state.
	// Invalid readings are rejected without mutating any state.
	Push(reading protocol.Reading) error

	// Render draws the widget into a block of the given width.
	Render(width int) string
}

// constructors maps a descriptor kind to its widget constructor.
// Dispatch is a closed lookup table, not inheritance.
var constructors = map[string]func(protocol.WidgetSpec, *StyleSet) Widget{
	protocol.KindBar: func(spec protocol.WidgetSpec, styles *StyleSet) Widget {
		return NewBar(spec, styles)
	},
	protocol.KindGraph: func(spec protocol.WidgetSpec, styles *StyleSet) Widget {
		return NewGraph(spec, styles)
	},
}

// New instantiates a widget from its descriptor spec.
func New(spec protocol.WidgetSpec, styles *StyleSet) (Widget, error) {
	construct, ok := constructors[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("widgets: unsupported widget kind %q", spec.Kind)
	}
	if !protocol.ValidIdentifier(spec.Identifier) {
		return nil, fmt.Errorf("widgets: bad identifier %q", spec.Identifier)
	}
	return construct(spec, styles), nil
}

// labelRow lays the left and right labels out on one line of the given
// width, left- and right-justified. Widths are measured through
// lipgloss so ANSI styling does not count against the gap.
func labelRow(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
