package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// defaultBarRows is the number of stacked visual rows per bar. Odd so
// that exactly one middle row can carry the numeric overlay.
const defaultBarRows = 3

// Bar is a stacked horizontal gauge. All rows show the same completion
// percentage; only the middle row renders the percentage text.
type Bar struct {
	identifier string
	leftTpl    string
	rightTpl   string
	rows       int

	completion float64
	leftLabel  string
	rightLabel string

	complete   lipgloss.Style
	normal     lipgloss.Style
	leftStyle  lipgloss.Style
	rightStyle lipgloss.Style
}

// NewBar builds a bar widget for the given spec with styles resolved
// from the palette.
func NewBar(spec protocol.WidgetSpec, styles *StyleSet) *Bar {
	b := &Bar{
		identifier: spec.Identifier,
		leftTpl:    spec.LeftTpl,
		rightTpl:   spec.RightTpl,
		rows:       defaultBarRows,
		complete:   styles.For(spec.Identifier, PartComplete),
		normal:     styles.For(spec.Identifier, PartNormal),
		leftStyle:  styles.For(spec.Identifier, PartLeftLabel),
		rightStyle: styles.For(spec.Identifier, PartRightLabel),
	}
	b.leftLabel = FormatLabel(b.leftTpl, 0, 0, 0)
	b.rightLabel = FormatLabel(b.rightTpl, 0, 0, 0)
	return b
}

// Identifier implements Widget.
func (b *Bar) Identifier() string { return b.identifier }

// Push implements Widget. The completion bar clamps to [0, 100] while
// labels keep the raw quotient.
func (b *Bar) Push(reading protocol.Reading) error {
	if err := reading.Validate(); err != nil {
		return err
	}

	quotient := reading.Quotient()
	b.leftLabel = FormatLabel(b.leftTpl, quotient, reading.RawValue(), reading.RawTotal())
	b.rightLabel = FormatLabel(b.rightTpl, quotient, reading.RawValue(), reading.RawTotal())
	b.completion = reading.DisplayQuotient()
	return nil
}

// Completion returns the current completion percentage.
func (b *Bar) Completion() float64 { return b.completion }

// Rows returns the number of stacked visual rows.
func (b *Bar) Rows() int { return b.rows }

// TextRow returns the index of the row that renders the numeric
// overlay: of N stacked rows, the one at ceil(N/2)-1.
func (b *Bar) TextRow() int {
	return int(math.Ceil(float64(b.rows)/2)) - 1
}

// LeftLabel returns the current left label text.
func (b *Bar) LeftLabel() string { return b.leftLabel }

// RightLabel returns the current right label text.
func (b *Bar) RightLabel() string { return b.rightLabel }

// Render implements Widget. One label row followed by the stacked
// gauge rows.
func (b *Bar) Render(width int) string {
	if width < 4 {
		width = 4
	}

	lines := make([]string, 0, b.rows+1)
	lines = append(lines, labelRow(
		b.leftStyle.Render(b.leftLabel),
		b.rightStyle.Render(b.rightLabel),
		width,
	))

	textRow := b.TextRow()
	for row := 0; row < b.rows; row++ {
		overlay := ""
		if row == textRow {
			overlay = fmt.Sprintf(" %.0f %% ", b.completion)
		}
		lines = append(lines, b.renderRow(width, overlay))
	}

	return strings.Join(lines, "\n")
}

// renderRow draws one gauge row. The overlay text, when present, is
// centered and keeps the fill/empty coloring underneath it.
func (b *Bar) renderRow(width int, overlay string) string {
	filledCount := int(math.Round(b.completion / 100.0 * float64(width)))
	if filledCount > width {
		filledCount = width
	}

	cells := make([]rune, width)
	for i := range cells {
		cells[i] = ' '
	}
	if overlay != "" {
		start := (width - len(overlay)) / 2
		for i, r := range overlay {
			pos := start + i
			if pos >= 0 && pos < width {
				cells[pos] = r
			}
		}
	}

	filled := string(cells[:filledCount])
	empty := string(cells[filledCount:])
	return b.complete.Render(filled) + b.normal.Render(empty)
}
