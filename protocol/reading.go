// Package protocol defines the wire contract between the coraldeck agent
// and the dashboard: metric readings, widget descriptors, palette rules,
// and the request/response payloads of the HTTP API.
package protocol

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidReading is returned when a reading carries neither an
// overview percentage nor a usable value/total pair.
var ErrInvalidReading = errors.New("protocol: invalid reading")

// identifierPattern constrains widget identifiers and push data keys.
var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidIdentifier reports whether s is a legal widget identifier.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Reading is a single metric sample. Either Overview holds a
// pre-computed percentage, or Value and Total hold a raw measurement
// from which the percentage is derived. Absent fields are nil.
type Reading struct {
	// Overview is a pre-computed percentage in [0, 100].
	Overview *float64 `json:"overview,omitempty"`
	// Value is the raw measured value.
	Value *float64 `json:"value,omitempty"`
	// Total is the raw maximum for Value. Must be nonzero.
	Total *float64 `json:"total,omitempty"`
}

// Overview returns a reading with only an overview percentage set.
func Overview(percent float64) Reading {
	return Reading{Overview: &percent}
}

// Measure returns a reading with a raw value/total pair set.
func Measure(value, total float64) Reading {
	return Reading{Value: &value, Total: &total}
}

// Validate checks the reading invariant: either Overview is present,
// or both Value and Total are present with Total != 0.
func (r Reading) Validate() error {
	if r.Overview != nil {
		return nil
	}
	if r.Value == nil || r.Total == nil {
		return fmt.Errorf("%w: overview or value/total required", ErrInvalidReading)
	}
	if *r.Total == 0 {
		return fmt.Errorf("%w: total of zero is forbidden", ErrInvalidReading)
	}
	return nil
}

// Quotient derives the percentage for this reading: Overview when
// present, else 100*Value/Total. The reading must be valid.
func (r Reading) Quotient() float64 {
	if r.Overview != nil {
		return *r.Overview
	}
	return (*r.Value / *r.Total) * 100.0
}

// DisplayQuotient is Quotient clamped to [0, 100] for bar completion.
// Labels keep the raw quotient; only the visual clamps.
func (r Reading) DisplayQuotient() float64 {
	q := r.Quotient()
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// RawValue returns Value or 0 when absent, for label formatting.
func (r Reading) RawValue() float64 {
	if r.Value == nil {
		return 0
	}
	return *r.Value
}

// RawTotal returns Total or 0 when absent, for label formatting.
func (r Reading) RawTotal() float64 {
	if r.Total == nil {
		return 0
	}
	return *r.Total
}
