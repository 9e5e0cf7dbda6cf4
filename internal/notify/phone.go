package notify

import "strings"

// NormalizePhone strips formatting from a phone number and prefixes the
// default country code when the number looks like a bare local one:
// 10 digits get the code prepended, a leading-zero 11-digit number has the
// zero replaced by the code, and anything already carrying the code is
// left as is.
func NormalizePhone(phone, countryCode string) string {
	if phone == "" {
		return ""
	}

	var digits strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	cleaned := digits.String()

	switch {
	case len(cleaned) == 10:
		cleaned = countryCode + cleaned
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "0"):
		cleaned = countryCode + cleaned[1:]
	}

	return cleaned
}
