package application

import (
	"regexp"
	"strings"
)

// maxPhoneDigits is the length of a Brazilian mobile number with area code.
const maxPhoneDigits = 11

var phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{5}-\d{4}$`)

// MaskPhone reformats raw keystroke input into the progressive display form
// of a phone number. Non-digits are dropped and at most 11 digits are kept:
//
//	1-2 digits   (DD
//	3-7 digits   (DD) DDDDD
//	8-11 digits  (DD) DDDDD-DDDD
//
// Empty input (or input without digits) yields "". MaskPhone(MaskPhone(x))
// always equals MaskPhone(x).
func MaskPhone(raw string) string {
	digits := phoneDigits(raw)

	var b strings.Builder
	b.Grow(len("(DD) DDDDD-DDDD"))

	switch n := len(digits); {
	case n == 0:
		return ""
	case n <= 2:
		b.WriteByte('(')
		b.WriteString(digits)
	case n <= 7:
		b.WriteByte('(')
		b.WriteString(digits[:2])
		b.WriteString(") ")
		b.WriteString(digits[2:])
	default:
		b.WriteByte('(')
		b.WriteString(digits[:2])
		b.WriteString(") ")
		b.WriteString(digits[2:7])
		b.WriteByte('-')
		b.WriteString(digits[7:])
	}

	return b.String()
}

// ValidPhone reports whether value is a complete phone in the canonical
// "(DD) DDDDD-DDDD" form. Partial masks and raw digits are rejected.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

// phoneDigits keeps the ASCII digits of raw, truncated to maxPhoneDigits.
func phoneDigits(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw) && b.Len() < maxPhoneDigits; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
