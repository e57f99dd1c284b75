// Package phone reshapes free-form user input into E.164 numbers.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber is returned when the input cannot be reshaped into a +-prefixed number.
var ErrInvalidNumber = errors.New("phone: invalid number")

var arabicIndicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// ToE164 converts raw user input into E.164 form. A leading 00 becomes +, a single
// leading 0 (national trunk prefix) and bare digit strings get defaultCC prepended.
// Input already starting with + is returned as cleaned, without length checks.
func ToE164(raw, defaultCC string) (string, error) {
	s := clean(raw)
	switch {
	case s == "":
		return "", ErrInvalidNumber
	case strings.HasPrefix(s, "+"):
		return s, nil
	case strings.HasPrefix(s, "00"):
		return "+" + s[2:], nil
	case strings.HasPrefix(s, "0"):
		return defaultCC + s[1:], nil
	case allDigits(s):
		return defaultCC + s, nil
	default:
		return "", ErrInvalidNumber
	}
}

// Dialable reports whether s can be handed to the telephony provider.
func Dialable(s string) bool {
	return s != "" && s[0] == '+'
}

// Region returns the ISO region code for a canonical number, or "" when unknown.
// It is informational only and never used to reject a number.
func Region(canonical string) string {
	if !Dialable(canonical) {
		return ""
	}
	num, err := phonenumbers.Parse(canonical, "")
	if err != nil {
		return ""
	}
	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "ZZ" {
		return ""
	}
	return region
}

// clean trims, transliterates Arabic-Indic digits and keeps only ASCII digits and '+'.
func clean(raw string) string {
	s := arabicIndicDigits.Replace(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
