package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// Part names one visual element of a widget. Styles are resolved from
// the palette once, at widget construction, keyed by (identifier, part).
type Part string

const (
	// Graph parts.
	PartBackground Part = "background"
	PartLane1      Part = "bar1"
	PartLane2      Part = "bar2"

	// Bar parts.
	PartNormal   Part = "normal"
	PartComplete Part = "complete"

	// Shared parts.
	PartLeftLabel  Part = "left_label"
	PartRightLabel Part = "right_label"

	// Layout-level parts, not bound to an identifier.
	PartSectionTitle Part = "section title"
	PartPopup        Part = "popup"
)

// colorNames maps the terminal color names used in palette rules to
// ANSI color codes. Hex strings pass through untouched.
var colorNames = map[string]string{
	"black":         "0",
	"dark red":      "1",
	"dark green":    "2",
	"brown":         "3",
	"dark blue":     "4",
	"dark magenta":  "5",
	"dark cyan":     "6",
	"light gray":    "7",
	"dark gray":     "8",
	"light red":     "9",
	"light green":   "10",
	"yellow":        "11",
	"light blue":    "12",
	"light magenta": "13",
	"light cyan":    "14",
	"white":         "15",
}

// parseColor resolves one palette color string to a lipgloss color.
// A ", bold" suffix is tolerated and stripped; boldness is applied by
// the style builder.
func parseColor(s string) (lipgloss.Color, bool) {
	name := strings.TrimSpace(s)
	bold := false
	if cut, ok := strings.CutSuffix(name, ", bold"); ok {
		name = strings.TrimSpace(cut)
		bold = true
	}
	if name == "" {
		return "", bold
	}
	if code, ok := colorNames[name]; ok {
		return lipgloss.Color(code), bold
	}
	return lipgloss.Color(name), bold
}

// StyleSet resolves palette rules to concrete lipgloss styles.
type StyleSet struct {
	styles map[string]lipgloss.Style
}

// NewStyleSet builds a StyleSet from palette rules. Later rules with
// the same name replace earlier ones.
func NewStyleSet(rules []protocol.StyleRule) *StyleSet {
	styles := make(map[string]lipgloss.Style, len(rules))
	for _, rule := range rules {
		style := lipgloss.NewStyle()
		if fg, bold := parseColor(rule.Foreground); fg != "" || bold {
			if fg != "" {
				style = style.Foreground(fg)
			}
			if bold {
				style = style.Bold(true)
			}
		}
		if bg, _ := parseColor(rule.Background); bg != "" {
			style = style.Background(bg)
		}
		styles[rule.Name] = style
	}
	return &StyleSet{styles: styles}
}

// For returns the style for a widget part, or an unstyled default when
// the palette has no rule for it.
func (s *StyleSet) For(identifier string, part Part) lipgloss.Style {
	if s == nil {
		return lipgloss.NewStyle()
	}
	key := string(part)
	if identifier != "" {
		key = identifier + " " + string(part)
	}
	if style, ok := s.styles[key]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
