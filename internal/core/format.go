package core

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a total with a comma between every group of three
// integer digits: 1234567 -> "1,234,567", 12.5 -> "12.5".
//
// Zero renders as "0" and NaN or infinities as "". Only the leading run of
// digits is grouped, so a fractional or exponent suffix passes through
// untouched. Negative numbers start with '-', which is not a digit, and are
// returned ungrouped ("-1000").
func FormatNumber(value float64) string {
	if value == 0 {
		return "0"
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}

	s := numberString(value)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return s
	}
	return groupThousands(s[:end]) + s[end:]
}

// numberString is the shortest round-trip representation of v, switching to
// exponent notation outside [1e-6, 1e21) the way browsers print numbers.
func numberString(v float64) string {
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// Go pads exponents to two digits ("1e-07").
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
