// Package quantity interprets operator-entered quantity text ("5kg",
// "2.5 L", " 12 pcs "). The contract is deliberately lenient: keep the
// digits, keep one decimal point, drop everything else, and resolve
// malformed or empty input to zero instead of returning an error.
package quantity

import (
	"math"
	"strconv"
	"strings"
)

// Parse extracts the numeric magnitude from free text. Empty or fully
// non-numeric input yields 0. Input with several decimal points keeps the
// first one; the result for such dirty data is tolerated, not specified.
func Parse(s string) float64 {
	return parse(s, false)
}

// ParseSigned is Parse plus support for a leading minus sign, used for
// restock deltas ("-200" draws stock down) and for stored on-hand values,
// which are allowed to have gone negative.
func ParseSigned(s string) float64 {
	return parse(s, true)
}

func parse(s string, signed bool) float64 {
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		case signed && r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// Round3 rounds to the fixed three-decimal precision used for ingredient
// write-back.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Format renders a quantity back to text with minimal digits, so
// Parse(Format(v)) == v for any Round3-ed value.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
