package protocol

import (
	"encoding/json"
	"fmt"
)

// Widget kinds supported by the dashboard.
const (
	KindBar   = "bar"
	KindGraph = "graph"
)

// WidgetSpec describes a single renderable widget. LeftTpl and RightTpl
// are label templates with {quotient}, {value} and {total} placeholders.
type WidgetSpec struct {
	Kind       string `json:"widget"`
	Identifier string `json:"identifier"`
	LeftTpl    string `json:"left_tpl"`
	RightTpl   string `json:"right_tpl"`
}

// Descriptor is one entry of a widget layout. Exactly one of the
// variants is set:
//
//	Divider  — blank spacer row (wire: null)
//	Section  — centered section title (wire: string)
//	Widget   — a Bar or Graph widget (wire: object)
//	Columns  — widgets laid out side by side (wire: array)
type Descriptor struct {
	Divider bool
	Section string
	Widget  *WidgetSpec
	Columns []WidgetSpec
}

// NewDivider returns a spacer descriptor.
func NewDivider() Descriptor { return Descriptor{Divider: true} }

// NewSection returns a section title descriptor.
func NewSection(title string) Descriptor { return Descriptor{Section: title} }

// NewWidget returns a single widget descriptor.
func NewWidget(spec WidgetSpec) Descriptor { return Descriptor{Widget: &spec} }

// NewColumns returns a side-by-side column group descriptor.
func NewColumns(specs ...WidgetSpec) Descriptor { return Descriptor{Columns: specs} }

// MarshalJSON encodes the descriptor in its wire form.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	switch {
	case d.Widget != nil:
		return json.Marshal(d.Widget)
	case d.Columns != nil:
		return json.Marshal(d.Columns)
	case d.Section != "":
		return json.Marshal(d.Section)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a descriptor from its wire form. The variant is
// picked from the JSON shape: null, string, object or array.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	*d = Descriptor{}

	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("protocol: decode descriptor: %w", err)
	}

	switch probe.(type) {
	case nil:
		d.Divider = true
		return nil
	case string:
		return json.Unmarshal(data, &d.Section)
	case map[string]interface{}:
		d.Widget = &WidgetSpec{}
		return json.Unmarshal(data, d.Widget)
	case []interface{}:
		d.Columns = []WidgetSpec{}
		return json.Unmarshal(data, &d.Columns)
	default:
		return fmt.Errorf("protocol: descriptor has unsupported shape: %s", data)
	}
}

// Identifiers returns the widget identifiers contained in the
// descriptor list, in layout order. This is the join key between the
// collection and display subsystems.
func Identifiers(descriptors []Descriptor) []string {
	var out []string
	for _, d := range descriptors {
		if d.Widget != nil {
			out = append(out, d.Widget.Identifier)
		}
		for _, col := range d.Columns {
			out = append(out, col.Identifier)
		}
	}
	return out
}
