package widgets

import (
	"strconv"
	"strings"
)

// FormatLabel expands a widget label template. Templates carry
// {quotient}, {value} and {total} placeholders: the quotient renders
// with one decimal, value and total render as given with trailing
// zeros trimmed (physical units are typically integral).
func FormatLabel(tpl string, quotient, value, total float64) string {
	replacer := strings.NewReplacer(
		"{quotient}", strconv.FormatFloat(quotient, 'f', 1, 64),
		"{value}", formatRaw(value),
		"{total}", formatRaw(total),
	)
	return replacer.Replace(tpl)
}

// formatRaw renders a raw measurement without forcing a precision.
func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
