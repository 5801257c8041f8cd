package domain

import "strings"

// NormalizePhoneNumber maps arbitrary phone-number text to E.164 form
// (e.g. "+12501234567"), assuming North American numbers when no country
// code is present. Empty input yields an empty string rather than an
// error. Every boundary that stores or looks up a number must go through
// this function so a reply's From number matches an earlier send's
// recipient number regardless of how either was typed.
func NormalizePhoneNumber(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}

	if len(cleaned) == 10 && !strings.HasPrefix(cleaned, "1") {
		cleaned = "1" + cleaned
	}

	return "+" + cleaned
}
