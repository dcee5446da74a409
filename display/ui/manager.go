// Package ui owns the dashboard widget tree: building it from a
// descriptor list, fanning pushed readings out to widgets, and the
// message popup overlay. All tree and title state lives in one Manager
// guarded by a single mutex, since HTTP handlers run on concurrent
// goroutines while the render loop reads.
package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"gitlab.com/tinyland/lab/coraldeck/display/widgets"
	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// DefaultTitle is the title template used when a request carries none.
const DefaultTitle = "Coral Deck - {version}"

// Default popup geometry, as fractions of the terminal canvas.
const (
	defaultPopupWidth  = 0.5
	defaultPopupHeight = 0.5
)

// Build errors. A failed build leaves the previous tree untouched.
var (
	ErrUnknownDescriptor   = errors.New("ui: unknown descriptor shape")
	ErrMixedColumnKinds    = errors.New("ui: column group mixes widget kinds")
	ErrDuplicateIdentifier = errors.New("ui: duplicate widget identifier")
)

// popupIcons prefix popup text by message type.
var popupIcons = map[string]string{
	"WARNING": "⚠",
}

// rowKind discriminates layout rows.
type rowKind int

const (
	rowDivider rowKind = iota
	rowSection
	rowWidgets
)

// row is one rendered line group of the layout: a spacer, a section
// title, or one-or-more widgets side by side.
type row struct {
	kind    rowKind
	section string
	widgets []widgets.Widget
}

// popup holds the message overlay state.
type popup struct {
	title  string
	text   string
	width  float64
	height float64
}

// Manager owns the widget tree, the display title and the popup.
type Manager struct {
	version string
	logger  *slog.Logger

	mu     sync.Mutex
	rows   []row
	tree   map[string]widgets.Widget
	order  []string
	styles *widgets.StyleSet
	title  string
	popup  *popup
}

// NewManager creates a Manager with an empty tree and the default
// title. A nil logger discards output.
func NewManager(version string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{
		version: version,
		logger:  logger,
		tree:    map[string]widgets.Widget{},
	}
	m.title = m.formatTitle(nil)
	return m
}

// formatTitle expands the {version} placeholder of a title template,
// falling back to the default template when none is given.
func (m *Manager) formatTitle(tpl *string) string {
	t := DefaultTitle
	if tpl != nil {
		t = *tpl
	}
	return strings.ReplaceAll(t, "{version}", m.version)
}

// Build replaces the whole tree from a descriptor list. The build is
// all-or-nothing: any malformed descriptor fails the call and the
// previous tree stays active. Returns the registered identifiers in
// layout order.
func (m *Manager) Build(descriptors []protocol.Descriptor, palette []protocol.StyleRule, title *string) ([]string, error) {
	styles := widgets.NewStyleSet(palette)
	rows := make([]row, 0, len(descriptors))
	tree := make(map[string]widgets.Widget)
	order := make([]string, 0)

	register := func(spec protocol.WidgetSpec) (widgets.Widget, error) {
		w, err := widgets.New(spec, styles)
		if err != nil {
			return nil, err
		}
		if _, exists := tree[spec.Identifier]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIdentifier, spec.Identifier)
		}
		tree[spec.Identifier] = w
		order = append(order, spec.Identifier)
		return w, nil
	}

	for i, d := range descriptors {
		switch {
		case d.Divider:
			rows = append(rows, row{kind: rowDivider})

		case d.Section != "":
			rows = append(rows, row{kind: rowSection, section: d.Section})

		case d.Widget != nil:
			w, err := register(*d.Widget)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row{kind: rowWidgets, widgets: []widgets.Widget{w}})

		case len(d.Columns) > 0:
			kind := d.Columns[0].Kind
			cols := make([]widgets.Widget, 0, len(d.Columns))
			for _, spec := range d.Columns {
				if spec.Kind != kind {
					return nil, fmt.Errorf("%w: %q and %q", ErrMixedColumnKinds, kind, spec.Kind)
				}
				w, err := register(spec)
				if err != nil {
					return nil, err
				}
				cols = append(cols, w)
			}
			rows = append(rows, row{kind: rowWidgets, widgets: cols})

		default:
			return nil, fmt.Errorf("%w: descriptor %d", ErrUnknownDescriptor, i)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
	m.tree = tree
	m.order = order
	m.styles = styles
	m.title = m.formatTitle(title)

	m.logger.Info("built widget tree", "widgets", len(order))
	return order, nil
}

// Push fans readings out to their widgets and updates the title.
// Unknown identifiers are logged and skipped; they are simply absent
// from the returned list. Identifiers are applied in sorted order so
// the response is deterministic.
func (m *Manager) Push(data map[string]protocol.Reading, title *string) []string {
	identifiers := make([]string, 0, len(data))
	for identifier := range data {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	m.mu.Lock()
	defer m.mu.Unlock()

	pushed := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		w, ok := m.tree[identifier]
		if !ok {
			m.logger.Warn("push for unknown widget", "identifier", identifier)
			continue
		}
		if err := w.Push(data[identifier]); err != nil {
			m.logger.Warn("push rejected", "identifier", identifier, "error", err)
			continue
		}
		pushed = append(pushed, identifier)
	}

	m.title = m.formatTitle(title)
	return pushed
}

// ShowMessage opens or refreshes the popup overlay. Width and height
// are fractions of the terminal canvas; zero uses defaults.
func (m *Manager) ShowMessage(title, text string, width, height float64, msgType string) {
	if width == 0 {
		width = defaultPopupWidth
	}
	if height == 0 {
		height = defaultPopupHeight
	}
	icon, ok := popupIcons[msgType]
	if !ok {
		icon = popupIcons["WARNING"]
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.popup = &popup{
		title:  title,
		text:   icon + " " + text,
		width:  width,
		height: height,
	}
}

// HideMessage closes the popup overlay.
func (m *Manager) HideMessage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popup = nil
}

// PopupActive reports whether the popup overlay is open.
func (m *Manager) PopupActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popup != nil
}

// Title returns the current display title.
func (m *Manager) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

// Identifiers returns the registered identifiers in layout order.
func (m *Manager) Identifiers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Widget returns a widget by identifier.
func (m *Manager) Widget(identifier string) (widgets.Widget, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.tree[identifier]
	return w, ok
}
