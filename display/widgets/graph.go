package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// GraphCapacity is the fixed length of a graph's history ring buffer.
const GraphCapacity = 200

// graphBlocks are eighth-block characters for column heights, lowest
// to highest.
var graphBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// LanePair is one history entry. Exactly one lane carries the sample's
// quotient; the other is zero. Consecutive samples alternate lanes so
// the chart renders in two tones instead of a solid mass. This is a
// display technique, not a data-integrity mechanism.
type LanePair struct {
	Lane1 float64
	Lane2 float64
}

// Graph is a rolling two-tone history chart. Its buffer always holds
// exactly GraphCapacity entries; a push evicts the oldest.
type Graph struct {
	identifier string
	leftTpl    string
	rightTpl   string

	history []LanePair
	samples int

	leftLabel  string
	rightLabel string

	lane1      lipgloss.Style
	lane2      lipgloss.Style
	leftStyle  lipgloss.Style
	rightStyle lipgloss.Style
}

// NewGraph builds a graph widget with a zeroed full-length buffer.
func NewGraph(spec protocol.WidgetSpec, styles *StyleSet) *Graph {
	g := &Graph{
		identifier: spec.Identifier,
		leftTpl:    spec.LeftTpl,
		rightTpl:   spec.RightTpl,
		history:    make([]LanePair, GraphCapacity),
		lane1:      styles.For(spec.Identifier, PartLane1),
		lane2:      styles.For(spec.Identifier, PartLane2),
		leftStyle:  styles.For(spec.Identifier, PartLeftLabel),
		rightStyle: styles.For(spec.Identifier, PartRightLabel),
	}
	g.leftLabel = FormatLabel(g.leftTpl, 0, 0, 0)
	g.rightLabel = FormatLabel(g.rightTpl, 0, 0, 0)
	return g
}

// Identifier implements Widget.
func (g *Graph) Identifier() string { return g.identifier }

// Push implements Widget. Appends one entry to the ring buffer using
// the alternating-lane encoding: even sample indexes put the quotient
// in lane 2, odd indexes in lane 1.
func (g *Graph) Push(reading protocol.Reading) error {
	if err := reading.Validate(); err != nil {
		return err
	}

	quotient := reading.Quotient()
	g.leftLabel = FormatLabel(g.leftTpl, quotient, reading.RawValue(), reading.RawTotal())
	g.rightLabel = FormatLabel(g.rightTpl, quotient, reading.RawValue(), reading.RawTotal())

	entry := LanePair{Lane2: reading.DisplayQuotient()}
	if g.samples&1 == 1 {
		entry = LanePair{Lane1: reading.DisplayQuotient()}
	}

	// Strict FIFO: drop the oldest, keep length constant.
	copy(g.history, g.history[1:])
	g.history[GraphCapacity-1] = entry
	g.samples++
	return nil
}

// History returns a copy of the ring buffer, oldest first.
func (g *Graph) History() []LanePair {
	out := make([]LanePair, len(g.history))
	copy(out, g.history)
	return out
}

// Latest returns the most recent history entry.
func (g *Graph) Latest() LanePair { return g.history[GraphCapacity-1] }

// Samples returns the number of pushes since the widget was built.
func (g *Graph) Samples() int { return g.samples }

// LeftLabel returns the current left label text.
func (g *Graph) LeftLabel() string { return g.leftLabel }

// RightLabel returns the current right label text.
func (g *Graph) RightLabel() string { return g.rightLabel }

// Render implements Widget. One label row, then the most recent
// samples as one column each, colored by the lane that carries them.
func (g *Graph) Render(width int) string {
	if width < 4 {
		width = 4
	}

	var chart strings.Builder
	visible := g.history
	if width < len(visible) {
		visible = visible[len(visible)-width:]
	}
	for _, entry := range visible {
		value, style := entry.Lane2, g.lane2
		if entry.Lane1 > entry.Lane2 {
			value, style = entry.Lane1, g.lane1
		}
		if value <= 0 {
			chart.WriteString(" ")
			continue
		}
		idx := int(value / 100.0 * float64(len(graphBlocks)-1))
		if idx >= len(graphBlocks) {
			idx = len(graphBlocks) - 1
		}
		chart.WriteString(style.Render(string(graphBlocks[idx])))
	}

	label := labelRow(
		g.leftStyle.Render(g.leftLabel),
		g.rightStyle.Render(g.rightLabel),
		width,
	)
	return label + "\n" + chart.String()
}
