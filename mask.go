package shroud

import "strings"

// DefaultMaskChar is the fill character used when a policy does not name one.
const DefaultMaskChar = '*'

// Minimum cleaned lengths below which a kind masks the whole original value.
const (
	minCardDigits  = 12
	minPhoneDigits = 7
	minIBANChars   = 8
)

// Mask applies the masking algorithm for kind to value.
// showFirst and showLast only affect MaskGeneric; the other kinds use
// fixed reveal rules. Unknown kinds mask the whole value.
//
// Callers pass empty values through without calling Mask.
func Mask(kind MaskKind, value string, showFirst, showLast int, maskChar rune) string {
	switch kind {
	case MaskGeneric:
		return maskGeneric(value, showFirst, showLast, maskChar)
	case MaskEmail:
		return maskEmail(value, maskChar)
	case MaskCreditCard:
		return maskCreditCard(value, maskChar)
	case MaskPhoneNumber:
		return maskPhoneNumber(value, maskChar)
	case MaskIBAN:
		return maskIBAN(value, maskChar)
	default:
		return maskGeneric(value, 0, 0, maskChar)
	}
}

// maskGeneric keeps showFirst leading and showLast trailing runes.
// When the value is not longer than showFirst+showLast every rune is masked.
func maskGeneric(value string, showFirst, showLast int, maskChar rune) string {
	showFirst = max(showFirst, 0)
	showLast = max(showLast, 0)

	runes := []rune(value)
	n := len(runes)
	if n <= showFirst+showLast {
		return strings.Repeat(string(maskChar), n)
	}

	var b strings.Builder
	b.Grow(len(value))
	b.WriteString(string(runes[:showFirst]))
	b.WriteString(strings.Repeat(string(maskChar), n-showFirst-showLast))
	b.WriteString(string(runes[n-showLast:]))
	return b.String()
}

// maskEmail: user@example.com -> u**r@example.com
func maskEmail(value string, maskChar rune) string {
	atIdx := strings.IndexByte(value, '@')
	if atIdx <= 0 {
		// No @ or @ at start, mask everything
		return maskGeneric(value, 0, 0, maskChar)
	}

	local := value[:atIdx]
	domain := value[atIdx:]
	return maskGeneric(local, 1, 1, maskChar) + domain
}

// maskCreditCard: 4111 1111 1111 1234 -> ************1234
func maskCreditCard(value string, maskChar rune) string {
	digits := extractDigits(value)
	if len(digits) < minCardDigits {
		return maskGeneric(value, 0, 0, maskChar)
	}

	last4 := digits[len(digits)-4:]
	return strings.Repeat(string(maskChar), len(digits)-4) + last4
}

// maskPhoneNumber: +1 (555) 123-4567 -> 155******67
func maskPhoneNumber(value string, maskChar rune) string {
	digits := extractDigits(value)
	if len(digits) < minPhoneDigits {
		return maskGeneric(value, 0, 0, maskChar)
	}
	return maskGeneric(digits, 3, 2, maskChar)
}

// maskIBAN: DE89 3704 0044 0532 0130 00 -> DE89**************3000
func maskIBAN(value string, maskChar rune) string {
	cleaned := extractAlphanumerics(value)
	if len(cleaned) < minIBANChars {
		return maskGeneric(value, 0, 0, maskChar)
	}
	return maskGeneric(cleaned, 4, 4, maskChar)
}

// extractDigits returns only the ASCII digit characters from a string.
func extractDigits(s string) string {
	var digits strings.Builder
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			digits.WriteByte(c)
		}
	}
	return digits.String()
}

// extractAlphanumerics returns only the ASCII letters and digits from a string.
func extractAlphanumerics(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			out.WriteByte(c)
		}
	}
	return out.String()
}
