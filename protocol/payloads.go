package protocol

import "fmt"

// StyleRule assigns foreground/background colors to one named visual
// part of a widget, e.g. name "load_cpu bar1". Colors are terminal
// color names or hex strings understood by the renderer.
type StyleRule struct {
	Name       string `json:"name"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// ConfigRequest is the body of POST /api/config. It (re)builds the
// dashboard layout.
type ConfigRequest struct {
	Palette []StyleRule  `json:"palette"`
	Widgets []Descriptor `json:"widgets"`
	Title   *string      `json:"title"`
}

// ConfigResponse lists the identifiers registered in the new tree.
type ConfigResponse struct {
	Tree []string `json:"tree"`
}

// PushRequest is the body of POST /api/push.
type PushRequest struct {
	Title *string            `json:"title"`
	Data  map[string]Reading `json:"data"`
}

// Validate checks every data key against the identifier pattern and
// every reading against the reading invariant. No widget state may be
// mutated from a request that fails validation.
func (p PushRequest) Validate() error {
	if len(p.Data) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidReading)
	}
	for identifier, reading := range p.Data {
		if !ValidIdentifier(identifier) {
			return fmt.Errorf("protocol: bad identifier %q", identifier)
		}
		if err := reading.Validate(); err != nil {
			return fmt.Errorf("%s: %w", identifier, err)
		}
	}
	return nil
}

// PushResponse lists the identifiers whose widgets were updated.
type PushResponse struct {
	Pushed []string `json:"pushed"`
}

// MessageRequest is the body of POST /api/message. An empty Message
// dismisses the popup.
type MessageRequest struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Width   *float64 `json:"width,omitempty"`
	Height  *float64 `json:"height,omitempty"`
	Type    string   `json:"type,omitempty"`
}

// Validate checks the fractional popup geometry.
func (m MessageRequest) Validate() error {
	for _, dim := range []*float64{m.Width, m.Height} {
		if dim == nil {
			continue
		}
		if *dim < 0.1 || *dim > 1.0 {
			return fmt.Errorf("protocol: popup fraction %v out of range [0.1, 1.0]", *dim)
		}
	}
	return nil
}

// MessageResponse echoes the message that was shown or cleared.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON error body for all non-2xx API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
